package changelog

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	bracketPattern = regexp.MustCompile(`\[(.*?)\]`)
	datePattern    = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	linkPattern    = regexp.MustCompile(`^\[(.*?)\]:\s*(.*)$`)
)

func isTitle(line string) bool {
	return strings.HasPrefix(line, TitleMarker)
}

func isRelease(line string) bool {
	return strings.HasPrefix(line, ReleaseMarker)
}

func isCategory(line string) bool {
	return strings.HasPrefix(line, CategoryMarker)
}

func isEntry(line string) bool {
	return strings.HasPrefix(line, EntryMarker)
}

// isVersionLink matches reference-style link definitions: "[label]: url".
func isVersionLink(line string) bool {
	return strings.HasPrefix(line, LinkMarker) && strings.Contains(line, "]:")
}

// stripMarker removes the marker prefix and surrounding whitespace.
func stripMarker(line, marker string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, marker))
}

// parseReleaseHeading extracts the fields of a "## [version] - date [YANKED]" line.
func parseReleaseHeading(line string) Release {
	var r Release

	rest := line
	if m := bracketPattern.FindStringSubmatchIndex(line); m != nil {
		r.Version = strings.TrimSpace(line[m[2]:m[3]])
		rest = line[m[1]:]
	}
	// A version label may itself look like a date, so prefer the date that
	// follows it. See TestParseReleaseHeading_DateShapedVersion.
	if r.Date = findReleaseDate(rest); r.Date == nil {
		r.Date = findReleaseDate(line)
	}
	r.Yanked = strings.Contains(line, YankedMarker)

	if r.Version == "" && r.Date == nil {
		r.Version = UnreleasedVersion
	}
	return r
}

// findReleaseDate returns the first YYYY-MM-DD shaped run on the line.
func findReleaseDate(line string) *ReleaseDate {
	m := datePattern.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	// The pattern only admits digits, so Atoi cannot fail.
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	return NewReleaseDate(year, month, day)
}

// ParseReleaseDate parses a YYYY-MM-DD string without calendar validation.
func ParseReleaseDate(s string) (*ReleaseDate, bool) {
	s = strings.TrimSpace(s)
	if m := datePattern.FindStringSubmatchIndex(s); m == nil || m[0] != 0 || m[1] != len(s) {
		return nil, false
	}
	return findReleaseDate(s), true
}

func parseVersionLink(line string) (VersionLink, bool) {
	m := linkPattern.FindStringSubmatch(line)
	if m == nil {
		return VersionLink{}, false
	}
	return VersionLink{
		Version: strings.TrimSpace(m[1]),
		URL:     strings.TrimSpace(m[2]),
	}, true
}
