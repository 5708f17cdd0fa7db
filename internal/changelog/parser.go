package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger used while parsing.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// state is the position of the parser within the document.
type state int

const (
	stateTitle state = iota
	stateDescription
	stateRelease
	stateCategory
	stateEntry
	stateVersionLink
)

func (s state) String() string {
	switch s {
	case stateTitle:
		return "title"
	case stateDescription:
		return "description"
	case stateRelease:
		return "release"
	case stateCategory:
		return "category"
	case stateEntry:
		return "entry"
	case stateVersionLink:
		return "version-link"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// op names the model mutation a line asks for.
type op int

const (
	opNone op = iota
	opTitle
	opDescription
	opRelease
	opCategory
	opSkipCategory
	opEntry
	opContinue
	opLink
)

// effect is the mutation produced by one line. Only the fields relevant to
// op are set.
type effect struct {
	op      op
	text    string
	release Release
	kind    CategoryKind
	link    VersionLink
}

// transition classifies line in state s and returns the next state together
// with the mutation to apply. It has no side effects.
func transition(s state, line string) (state, effect) {
	switch {
	case s == stateDescription && isRelease(line):
		s = stateRelease
	case s == stateCategory && isEntry(line):
		s = stateEntry
	case s == stateEntry && isCategory(line):
		s = stateCategory
	case (s == stateCategory || s == stateEntry) && isRelease(line):
		s = stateRelease
	case (s == stateCategory || s == stateEntry) && isVersionLink(line):
		s = stateVersionLink
	}

	switch s {
	case stateTitle:
		if !isTitle(line) {
			return s, effect{}
		}
		return stateDescription, effect{op: opTitle, text: stripMarker(line, TitleMarker)}

	case stateDescription:
		return s, effect{op: opDescription, text: line}

	case stateRelease:
		return stateCategory, effect{op: opRelease, release: parseReleaseHeading(line)}

	case stateCategory:
		if !isCategory(line) {
			return s, effect{}
		}
		name := strings.ToLower(stripMarker(line, CategoryMarker))
		kind, ok := ParseCategoryKind(name)
		if !ok {
			return s, effect{op: opSkipCategory, text: name}
		}
		return stateEntry, effect{op: opCategory, kind: kind}

	case stateEntry:
		if isEntry(line) {
			return s, effect{op: opEntry, text: stripMarker(line, EntryMarker)}
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			return s, effect{}
		}
		return s, effect{op: opContinue, text: trimmed}

	case stateVersionLink:
		link, ok := parseVersionLink(line)
		if !ok {
			return s, effect{}
		}
		return s, effect{op: opLink, link: link}
	}

	return s, effect{}
}

// parser applies effects to a Changelog. The release and category cursors
// index the section currently being filled; -1 means none is open.
type parser struct {
	doc         *Changelog
	state       state
	description strings.Builder
	described   bool
	release     int
	category    int
}

func newParser() *parser {
	return &parser{
		doc:      &Changelog{},
		state:    stateTitle,
		release:  -1,
		category: -1,
	}
}

func (p *parser) feed(line string) {
	next, eff := transition(p.state, line)
	p.apply(eff)
	p.state = next
}

func (p *parser) apply(eff effect) {
	switch eff.op {
	case opNone:
	case opTitle:
		p.doc.Title = eff.text
	case opDescription:
		p.description.WriteString(eff.text)
		p.description.WriteByte('\n')
	case opRelease:
		p.finishDescription()
		p.doc.Releases = append(p.doc.Releases, eff.release)
		p.release = len(p.doc.Releases) - 1
		p.category = -1
	case opCategory:
		if p.release < 0 {
			return
		}
		r := &p.doc.Releases[p.release]
		r.Categories = append(r.Categories, Category{Kind: eff.kind})
		p.category = len(r.Categories) - 1
	case opSkipCategory:
		logDebug("[changelog] debug: dropping unrecognized category %q", eff.text)
		p.category = -1
	case opEntry:
		if c := p.currentCategory(); c != nil {
			c.Entries = append(c.Entries, Entry{Text: eff.text})
		}
	case opContinue:
		c := p.currentCategory()
		if c == nil || len(c.Entries) == 0 {
			return
		}
		last := &c.Entries[len(c.Entries)-1]
		last.Text += "\n" + eff.text
	case opLink:
		p.doc.VersionLinks = append(p.doc.VersionLinks, eff.link)
	}
}

func (p *parser) currentCategory() *Category {
	if p.release < 0 || p.category < 0 {
		return nil
	}
	return &p.doc.Releases[p.release].Categories[p.category]
}

// finishDescription trims and stores the accumulated description once.
func (p *parser) finishDescription() {
	if p.described {
		return
	}
	p.described = true
	p.doc.Description = trimDescription(p.description.String())
}

// trimDescription drops trailing whitespace and leading blank lines. Leading
// spaces stay so an indented "## " line is not read back as a release heading.
func trimDescription(s string) string {
	return strings.TrimLeft(strings.TrimRightFunc(s, unicode.IsSpace), "\r\n")
}

func (p *parser) finish() *Changelog {
	if p.state == stateDescription {
		p.finishDescription()
	}
	return p.doc
}

// ParseLines builds a Changelog from lines without their terminators.
// Lines that do not fit the document structure are dropped; parsing never fails.
func ParseLines(lines []string) *Changelog {
	p := newParser()
	for _, line := range lines {
		p.feed(line)
	}
	return p.finish()
}

// ParseString parses a whole document held in memory.
func ParseString(s string) *Changelog {
	return ParseLines(splitLines(s))
}

// splitLines splits on LF, CRLF, or CR.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Split(s, "\n")
}

// Parse reads a whole document from r and parses it like ParseString, so
// LF, CRLF, and CR line endings are accepted and line length is unbounded.
// The only errors returned come from reading r.
func Parse(r io.Reader) (*Changelog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading changelog: %w", err)
	}
	return ParseString(string(data)), nil
}

// Load reads and parses the changelog file at path.
func Load(path string) (*Changelog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening changelog file: %w", err)
	}
	defer f.Close()

	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	logDebug("[changelog] debug: loaded %s (%d releases, %d links)", path, len(c.Releases), len(c.VersionLinks))
	return c, nil
}
