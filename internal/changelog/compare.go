package changelog

import (
	"cmp"
	"slices"
	"strings"
)

// CompareReleaseDates orders dates by year, month, then day.
func CompareReleaseDates(a, b ReleaseDate) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Month, b.Month); c != 0 {
		return c
	}
	return cmp.Compare(a.Day, b.Day)
}

// CompareReleases is the ascending release order. Unreleased sorts below
// every dated release and two unreleased releases compare equal. Dated
// releases compare by date, then by version string.
//
// Rendering uses the reverse of this order, newest first.
func CompareReleases(a, b Release) int {
	switch {
	case a.IsUnreleased() && b.IsUnreleased():
		return 0
	case a.IsUnreleased():
		return -1
	case b.IsUnreleased():
		return 1
	}
	if c := CompareReleaseDates(*a.Date, *b.Date); c != 0 {
		return c
	}
	return strings.Compare(a.Version, b.Version)
}

// CompareVersionLinks orders links by ordinal comparison of the version.
func CompareVersionLinks(a, b VersionLink) int {
	return strings.Compare(a.Version, b.Version)
}

// SortedReleases returns a copy of releases in render order: dated releases
// newest first, unreleased last in their original relative order.
func SortedReleases(releases []Release) []Release {
	out := slices.Clone(releases)
	slices.SortStableFunc(out, func(a, b Release) int {
		return CompareReleases(b, a)
	})
	return out
}

// SortedCategories returns a copy of categories in kind declaration order.
func SortedCategories(categories []Category) []Category {
	out := slices.Clone(categories)
	slices.SortStableFunc(out, func(a, b Category) int {
		return cmp.Compare(a.Kind, b.Kind)
	})
	return out
}

// SortedVersionLinks returns a copy of links in descending version order.
func SortedVersionLinks(links []VersionLink) []VersionLink {
	out := slices.Clone(links)
	slices.SortStableFunc(out, func(a, b VersionLink) int {
		return CompareVersionLinks(b, a)
	})
	return out
}
