package changelog

import (
	"fmt"
	"strings"
)

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// FlatEntry is a flattened view of a single changelog entry with the
// version and category it belongs to.
type FlatEntry struct {
	Text     string
	Category CategoryKind
	Version  string
}

// NormalizeVersion lower-cases a version and removes a leading "v", so
// "v0.6.0" and "0.6.0" refer to the same release.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}

// Release retrieves a release by version. Accepts both "v0.6.0" and "0.6.0"
// and matches "unreleased" case-insensitively.
// Returns VersionNotFoundError if the version doesn't exist.
func (c *Changelog) Release(version string) (*Release, error) {
	normalized := NormalizeVersion(version)

	for i := range c.Releases {
		if NormalizeVersion(c.Releases[i].Version) == normalized {
			return &c.Releases[i], nil
		}
	}

	return nil, &VersionNotFoundError{
		Version:           version,
		AvailableVersions: c.Versions(),
	}
}

// Unreleased returns the first release without a date, or nil.
func (c *Changelog) Unreleased() *Release {
	for i := range c.Releases {
		if c.Releases[i].IsUnreleased() {
			return &c.Releases[i]
		}
	}
	return nil
}

// LatestRelease returns the newest dated release, or nil when there is none.
func (c *Changelog) LatestRelease() *Release {
	var latest *Release
	for i := range c.Releases {
		r := &c.Releases[i]
		if r.IsUnreleased() {
			continue
		}
		if latest == nil || CompareReleases(*r, *latest) > 0 {
			latest = r
		}
	}
	return latest
}

// Versions returns the version labels in render order.
func (c *Changelog) Versions() []string {
	sorted := SortedReleases(c.Releases)
	versions := make([]string, len(sorted))
	for i, r := range sorted {
		versions[i] = r.Version
	}
	return versions
}

// Entries returns a flattened list of the entries in this release,
// in category order.
func (r Release) Entries() []FlatEntry {
	entries := make([]FlatEntry, 0, r.EntryCount())
	for _, cat := range SortedCategories(r.Categories) {
		for _, e := range cat.Entries {
			entries = append(entries, FlatEntry{Text: e.Text, Category: cat.Kind, Version: r.Version})
		}
	}
	return entries
}

// AllEntries returns all entries from all releases in render order.
// Unreleased entries come first since they are the most recent changes.
func (c *Changelog) AllEntries() []FlatEntry {
	sorted := SortedReleases(c.Releases)
	var entries []FlatEntry
	for _, r := range sorted {
		if r.IsUnreleased() {
			entries = append(entries, r.Entries()...)
		}
	}
	for _, r := range sorted {
		if r.IsReleased() {
			entries = append(entries, r.Entries()...)
		}
	}
	return entries
}

// LastN retrieves the N most recent entries across all releases.
// If N is greater than the total number of entries, all entries are returned.
func (c *Changelog) LastN(n int) []FlatEntry {
	if n <= 0 {
		return []FlatEntry{}
	}

	entries := c.AllEntries()
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// EntryCount returns the total number of entries across all releases.
func (c *Changelog) EntryCount() int {
	count := 0
	for _, r := range c.Releases {
		count += r.EntryCount()
	}
	return count
}
