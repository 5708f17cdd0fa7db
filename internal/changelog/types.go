package changelog

import (
	"fmt"
	"strings"
)

// Textual markers of the Keep a Changelog format.
const (
	TitleMarker    = "# "
	ReleaseMarker  = "## "
	CategoryMarker = "### "
	EntryMarker    = "- "
	LinkMarker     = "["

	// YankedMarker flags a release that was pulled from distribution.
	YankedMarker = "[YANKED]"

	// UnreleasedVersion is the version label of the release without a date.
	UnreleasedVersion = "Unreleased"
)

const (
	defaultTitle       = "Changelog"
	defaultDescription = `All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).`
)

// Changelog is the root of a parsed CHANGELOG.md document.
// Releases keep the order in which they were parsed; rendering sorts them.
type Changelog struct {
	Title        string
	Description  string
	Releases     []Release
	VersionLinks []VersionLink
}

// New returns a changelog with the default title and description and a
// single empty Unreleased release.
func New() *Changelog {
	return &Changelog{
		Title:       defaultTitle,
		Description: defaultDescription,
		Releases:    []Release{{Version: UnreleasedVersion}},
	}
}

// Release is one versioned section of the changelog.
// A release without a date is unreleased.
type Release struct {
	Version    string
	Date       *ReleaseDate
	Yanked     bool
	Categories []Category
}

// IsReleased reports whether the release carries a date.
func (r Release) IsReleased() bool {
	return r.Date != nil
}

// IsUnreleased reports whether the release has no date.
func (r Release) IsUnreleased() bool {
	return r.Date == nil
}

// IsEmpty returns true if the release has no entries in any category.
func (r Release) IsEmpty() bool {
	return r.EntryCount() == 0
}

// EntryCount returns the total number of entries across all categories.
func (r Release) EntryCount() int {
	n := 0
	for _, c := range r.Categories {
		n += len(c.Entries)
	}
	return n
}

// Category returns the first category of the given kind, or nil.
func (r *Release) Category(kind CategoryKind) *Category {
	for i := range r.Categories {
		if r.Categories[i].Kind == kind {
			return &r.Categories[i]
		}
	}
	return nil
}

// ReleaseDate is a calendar date as written in a release heading.
// No calendar validation is performed.
type ReleaseDate struct {
	Year  int
	Month int
	Day   int
}

// NewReleaseDate returns a pointer to the given date.
func NewReleaseDate(year, month, day int) *ReleaseDate {
	return &ReleaseDate{Year: year, Month: month, Day: day}
}

// String formats the date as YYYY-MM-DD, zero padded.
func (d ReleaseDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// CategoryKind is one of the Keep a Changelog change types.
// The declaration order is the render order.
type CategoryKind int

const (
	Added CategoryKind = iota
	Changed
	Deprecated
	Removed
	Fixed
	Security
)

var categoryNames = [...]string{
	Added:      "Added",
	Changed:    "Changed",
	Deprecated: "Deprecated",
	Removed:    "Removed",
	Fixed:      "Fixed",
	Security:   "Security",
}

// CategoryKinds returns all kinds in render order.
func CategoryKinds() []CategoryKind {
	return []CategoryKind{Added, Changed, Deprecated, Removed, Fixed, Security}
}

// String returns the heading name of the kind.
func (k CategoryKind) String() string {
	if k < 0 || int(k) >= len(categoryNames) {
		return fmt.Sprintf("CategoryKind(%d)", int(k))
	}
	return categoryNames[k]
}

// ParseCategoryKind matches a heading name case-insensitively.
func ParseCategoryKind(name string) (CategoryKind, bool) {
	name = strings.TrimSpace(name)
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return CategoryKind(i), true
		}
	}
	return 0, false
}

// Category groups the entries of one kind within a release.
type Category struct {
	Kind    CategoryKind
	Entries []Entry
}

// Entry is a single change. Text may span several lines.
type Entry struct {
	Text string
}

// VersionLink maps a version label to a comparison URL.
type VersionLink struct {
	Version string
	URL     string
}
