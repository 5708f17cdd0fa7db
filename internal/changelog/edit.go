package changelog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrNothingToRelease is returned by Promote when the Unreleased section
	// is missing or has no entries.
	ErrNothingToRelease = errors.New("no unreleased changes to release")

	// ErrVersionExists is returned when a release with the same version is present.
	ErrVersionExists = errors.New("version already exists")

	// ErrEmptyText is returned when an entry or version is blank.
	ErrEmptyText = errors.New("text cannot be empty")
)

// Clone returns a deep copy of the changelog.
func (c *Changelog) Clone() *Changelog {
	out := &Changelog{
		Title:        c.Title,
		Description:  c.Description,
		Releases:     make([]Release, len(c.Releases)),
		VersionLinks: slices.Clone(c.VersionLinks),
	}
	for i, r := range c.Releases {
		out.Releases[i] = r.clone()
	}
	return out
}

func (r Release) clone() Release {
	out := r
	if r.Date != nil {
		d := *r.Date
		out.Date = &d
	}
	if r.Categories == nil {
		return out
	}
	out.Categories = make([]Category, len(r.Categories))
	for i, cat := range r.Categories {
		out.Categories[i] = Category{Kind: cat.Kind, Entries: slices.Clone(cat.Entries)}
	}
	return out
}

// ensureUnreleased returns the Unreleased release, appending an empty one
// when the changelog has none.
func (c *Changelog) ensureUnreleased() *Release {
	if r := c.Unreleased(); r != nil {
		return r
	}
	c.Releases = append(c.Releases, Release{Version: UnreleasedVersion})
	return &c.Releases[len(c.Releases)-1]
}

// AddEntry appends an entry of the given kind to the Unreleased release.
// The release and the category are created when missing.
func (c *Changelog) AddEntry(kind CategoryKind, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}

	r := c.ensureUnreleased()
	cat := r.Category(kind)
	if cat == nil {
		r.Categories = append(r.Categories, Category{Kind: kind})
		cat = &r.Categories[len(r.Categories)-1]
	}
	cat.Entries = append(cat.Entries, Entry{Text: text})
	return nil
}

// Promote turns the Unreleased release into version released on date and
// opens a new empty Unreleased section above it.
func (c *Changelog) Promote(version string, date ReleaseDate) error {
	version = strings.TrimSpace(version)
	if version == "" {
		return fmt.Errorf("version: %w", ErrEmptyText)
	}
	if _, err := c.Release(version); err == nil {
		return fmt.Errorf("%s: %w", version, ErrVersionExists)
	}

	r := c.Unreleased()
	if r == nil || r.IsEmpty() {
		return ErrNothingToRelease
	}

	r.Version = version
	r.Date = &date
	r.Yanked = false
	c.Releases = append(c.Releases, Release{Version: UnreleasedVersion})
	return nil
}

// Yank marks the release as withdrawn.
func (c *Changelog) Yank(version string) error {
	r, err := c.Release(version)
	if err != nil {
		return err
	}
	if r.IsUnreleased() {
		return fmt.Errorf("cannot yank %s: release has no date", r.Version)
	}
	r.Yanked = true
	return nil
}

// GenerateVersionLinks builds GitHub style comparison links for every release.
// Each release compares against the one below it, the oldest links to its tag,
// and Unreleased compares the newest release to HEAD.
func (c *Changelog) GenerateVersionLinks(repoURL, tagPrefix string) []VersionLink {
	repoURL = strings.TrimSuffix(strings.TrimSpace(repoURL), "/")
	if repoURL == "" {
		return nil
	}

	sorted := SortedReleases(c.Releases)
	var dated []Release
	for _, r := range sorted {
		if r.IsReleased() {
			dated = append(dated, r)
		}
	}

	links := make([]VersionLink, 0, len(sorted))
	for _, r := range sorted {
		if r.IsUnreleased() && len(dated) > 0 {
			links = append(links, VersionLink{
				Version: r.Version,
				URL:     fmt.Sprintf("%s/compare/%s%s...HEAD", repoURL, tagPrefix, dated[0].Version),
			})
		}
	}
	for i, r := range dated {
		var url string
		if i+1 < len(dated) {
			url = fmt.Sprintf("%s/compare/%s%s...%s%s", repoURL, tagPrefix, dated[i+1].Version, tagPrefix, r.Version)
		} else {
			url = fmt.Sprintf("%s/releases/tag/%s%s", repoURL, tagPrefix, r.Version)
		}
		links = append(links, VersionLink{Version: r.Version, URL: url})
	}
	return links
}

// SetVersionLinks replaces the link block.
func (c *Changelog) SetVersionLinks(links []VersionLink) {
	c.VersionLinks = slices.Clone(links)
}
