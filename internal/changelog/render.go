package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const blankLine = "\n\n"

// Render formats the entry as a bullet. Continuation lines are indented by
// two spaces so they align under the bullet text.
func (e Entry) Render() string {
	return EntryMarker + strings.Join(splitLines(e.Text), "\n  ")
}

// Render formats the category heading followed by its entries.
func (c Category) Render() string {
	var b strings.Builder
	b.WriteString(CategoryMarker)
	b.WriteString(c.Kind.String())

	if len(c.Entries) > 0 {
		b.WriteString(blankLine)
		for i, e := range c.Entries {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(e.Render())
		}
	}
	return b.String()
}

// Heading returns the "## [version] - date [YANKED]" line of the release.
func (r Release) Heading() string {
	var b strings.Builder
	b.WriteString(ReleaseMarker)
	b.WriteString("[" + r.Version + "]")
	if r.IsReleased() {
		b.WriteString(" - " + r.Date.String())
	}
	if r.Yanked {
		b.WriteString(" " + YankedMarker)
	}
	return b.String()
}

// Render formats the release heading followed by its categories in kind order.
func (r Release) Render() string {
	notes := r.RenderNotes()
	if notes == "" {
		return r.Heading()
	}
	return r.Heading() + blankLine + notes
}

// RenderNotes formats the categories of the release without its heading.
// The result is suitable as the body of a release announcement.
func (r Release) RenderNotes() string {
	parts := make([]string, 0, len(r.Categories))
	for _, c := range SortedCategories(r.Categories) {
		parts = append(parts, c.Render())
	}
	return strings.Join(parts, blankLine)
}

// Render formats the link definition "[version]: url".
func (l VersionLink) Render() string {
	return "[" + l.Version + "]: " + l.URL
}

// Render produces the canonical text of the changelog. Releases are written
// newest first with Unreleased last and links in descending version order.
// The output has no trailing newline. Render does not modify c.
func (c *Changelog) Render() string {
	var b strings.Builder

	b.WriteString(TitleMarker + c.Title + blankLine)
	b.WriteString(c.Description + blankLine)

	for i, r := range SortedReleases(c.Releases) {
		if i > 0 {
			b.WriteString(blankLine)
		}
		b.WriteString(r.Render())
	}

	if len(c.VersionLinks) > 0 {
		b.WriteString(blankLine)
		for i, l := range SortedVersionLinks(c.VersionLinks) {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(l.Render())
		}
	}

	return b.String()
}

// String implements fmt.Stringer.
func (c *Changelog) String() string {
	return c.Render()
}

// WriteTo writes the rendered changelog to w.
func (c *Changelog) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.Render())
	if err != nil {
		return int64(n), fmt.Errorf("writing changelog: %w", err)
	}
	return int64(n), nil
}

// Save renders the changelog and writes it to path.
func (c *Changelog) Save(path string) error {
	if err := os.WriteFile(path, []byte(c.Render()), 0o644); err != nil {
		return fmt.Errorf("writing changelog file: %w", err)
	}
	logDebug("[changelog] debug: saved %s", path)
	return nil
}

// DropEmptyUnreleased returns a copy of c without unreleased releases that
// have no entries. It is an optional step before rendering; c is not modified.
func DropEmptyUnreleased(c *Changelog) *Changelog {
	out := c.Clone()
	releases := out.Releases[:0]
	for _, r := range out.Releases {
		if r.IsUnreleased() && r.IsEmpty() {
			continue
		}
		releases = append(releases, r)
	}
	out.Releases = releases
	return out
}
