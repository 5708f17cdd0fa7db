package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// CategoryStyle defines the color and icon for a changelog category.
type CategoryStyle struct {
	Color *color.Color
	Icon  string
}

// categoryStyles maps category kinds to their terminal styling.
var categoryStyles = map[CategoryKind]CategoryStyle{
	Added:      {Color: color.New(color.FgGreen), Icon: "✓"},
	Changed:    {Color: color.New(color.FgBlue), Icon: "~"},
	Deprecated: {Color: color.New(color.FgRed), Icon: "⚠"},
	Removed:    {Color: color.New(color.FgRed), Icon: "✗"},
	Fixed:      {Color: color.New(color.FgYellow), Icon: "⚡"},
	Security:   {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes entries grouped by version with color-coded
// category headers.
func FormatTerminal(entries []FlatEntry, w io.Writer, opts FormatOptions) error {
	if len(entries) == 0 {
		return nil
	}

	width := resolveWidth(opts.MaxWidth)

	for i, group := range groupEntriesByVersion(entries) {
		if err := formatVersionGroup(group, w, opts, width, i > 0); err != nil {
			return fmt.Errorf("formatting version %s: %w", group.version, err)
		}
	}

	return nil
}

// FormatRelease writes a single release's entries to the writer.
func FormatRelease(r *Release, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	if err := writeReleaseHeader(r, w, opts); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, cat := range SortedCategories(r.Categories) {
		if len(cat.Entries) == 0 {
			continue
		}
		if err := writeCategorySection(cat.Kind, cat.Entries, w, opts, width); err != nil {
			return err
		}
	}
	return nil
}

// versionGroup holds entries for a single version.
type versionGroup struct {
	version string
	entries []FlatEntry
}

// groupEntriesByVersion groups entries by their version, preserving order.
func groupEntriesByVersion(entries []FlatEntry) []versionGroup {
	var groups []versionGroup
	var current *versionGroup

	for _, e := range entries {
		if current == nil || current.version != e.Version {
			if current != nil {
				groups = append(groups, *current)
			}
			current = &versionGroup{version: e.Version}
		}
		current.entries = append(current.entries, e)
	}

	if current != nil {
		groups = append(groups, *current)
	}

	return groups
}

func formatVersionGroup(group versionGroup, w io.Writer, opts FormatOptions, width int, addSeparator bool) error {
	if addSeparator {
		fmt.Fprintln(w)
	}

	if err := writeHeader(versionLabel(group.version), w, opts); err != nil {
		return err
	}

	byKind := make(map[CategoryKind][]Entry)
	for _, e := range group.entries {
		byKind[e.Category] = append(byKind[e.Category], Entry{Text: e.Text})
	}
	for _, kind := range CategoryKinds() {
		if entries, ok := byKind[kind]; ok {
			if err := writeCategorySection(kind, entries, w, opts, width); err != nil {
				return err
			}
		}
	}

	return nil
}

func versionLabel(version string) string {
	if strings.EqualFold(version, UnreleasedVersion) {
		return UnreleasedVersion
	}
	return "v" + strings.TrimPrefix(version, "v")
}

func writeReleaseHeader(r *Release, w io.Writer, opts FormatOptions) error {
	header := versionLabel(r.Version)
	if r.IsReleased() {
		header = fmt.Sprintf("%s (%s)", header, r.Date)
	}
	if r.Yanked {
		header += " " + YankedMarker
	}
	return writeHeader(header, w, opts)
}

func writeHeader(header string, w io.Writer, opts FormatOptions) error {
	if opts.Plain {
		_, err := fmt.Fprintf(w, "## %s\n", header)
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	_, err := fmt.Fprintf(w, "## %s\n", bold(header))
	return err
}

// writeCategorySection writes a single category with its entries.
func writeCategorySection(kind CategoryKind, entries []Entry, w io.Writer, opts FormatOptions, width int) error {
	style := categoryStyles[kind]

	if opts.Plain {
		if _, err := fmt.Fprintf(w, "\n### %s\n", kind); err != nil {
			return err
		}
	} else {
		colored := style.Color.SprintFunc()
		if _, err := fmt.Fprintf(w, "\n%s %s\n", colored(style.Icon), colored(kind.String())); err != nil {
			return err
		}
	}

	for _, entry := range entries {
		if err := writeEntry(entry, style, w, opts, width); err != nil {
			return err
		}
	}

	return nil
}

// writeEntry writes a single changelog entry with optional wrapping.
func writeEntry(entry Entry, style CategoryStyle, w io.Writer, opts FormatOptions, width int) error {
	const prefix = "  - "
	const indent = "    "

	lines := splitLines(entry.Text)

	if opts.Plain {
		_, err := fmt.Fprintf(w, "%s%s\n", prefix, strings.Join(lines, "\n"+indent))
		return err
	}

	wrapped := make([]string, len(lines))
	for i, line := range lines {
		wrapped[i] = wrapText(line, width-len(prefix), indent)
	}

	colored := style.Color.SprintFunc()
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, colored(strings.Join(wrapped, "\n"+indent)))
	return err
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// FormatEntrySummary returns a brief one-line summary of an entry.
func FormatEntrySummary(entry FlatEntry, opts FormatOptions) string {
	text := truncateText(strings.ReplaceAll(entry.Text, "\n", " "), 60)

	if opts.Plain {
		return fmt.Sprintf("[%s] %s", strings.ToLower(entry.Category.String()), text)
	}

	style := categoryStyles[entry.Category]
	colored := style.Color.SprintFunc()
	return fmt.Sprintf("%s %s", colored(style.Icon), text)
}

// truncateText truncates text to maxLen, adding ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	return text[:maxLen-3] + "..."
}
