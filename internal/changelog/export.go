package changelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is the YAML/JSON form of a changelog. Versions are listed
// newest first and changes are grouped by category.
type Document struct {
	Title       string            `yaml:"title" json:"title"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Versions    []DocumentVersion `yaml:"versions" json:"versions"`
	Links       []DocumentLink    `yaml:"links,omitempty" json:"links,omitempty"`
}

// DocumentVersion is a single release in the YAML/JSON form.
// Date is empty for unreleased versions.
type DocumentVersion struct {
	Version string  `yaml:"version" json:"version"`
	Date    string  `yaml:"date,omitempty" json:"date,omitempty"`
	Yanked  bool    `yaml:"yanked,omitempty" json:"yanked,omitempty"`
	Changes Changes `yaml:"changes" json:"changes"`
}

// Changes groups change entries by Keep a Changelog category.
// All fields are optional; empty categories are omitted.
type Changes struct {
	Added      []string `yaml:"added,omitempty" json:"added,omitempty"`
	Changed    []string `yaml:"changed,omitempty" json:"changed,omitempty"`
	Deprecated []string `yaml:"deprecated,omitempty" json:"deprecated,omitempty"`
	Removed    []string `yaml:"removed,omitempty" json:"removed,omitempty"`
	Fixed      []string `yaml:"fixed,omitempty" json:"fixed,omitempty"`
	Security   []string `yaml:"security,omitempty" json:"security,omitempty"`
}

// DocumentLink is a version link in the YAML/JSON form.
type DocumentLink struct {
	Version string `yaml:"version" json:"version"`
	URL     string `yaml:"url" json:"url"`
}

// ValidationError represents an invalid imported document with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (ch *Changes) slot(kind CategoryKind) *[]string {
	switch kind {
	case Added:
		return &ch.Added
	case Changed:
		return &ch.Changed
	case Deprecated:
		return &ch.Deprecated
	case Removed:
		return &ch.Removed
	case Fixed:
		return &ch.Fixed
	case Security:
		return &ch.Security
	}
	return nil
}

// ToDocument converts the changelog to its YAML/JSON form in render order.
func (c *Changelog) ToDocument() Document {
	doc := Document{
		Title:       c.Title,
		Description: c.Description,
		Versions:    make([]DocumentVersion, 0, len(c.Releases)),
	}

	for _, r := range SortedReleases(c.Releases) {
		v := DocumentVersion{Version: r.Version, Yanked: r.Yanked}
		if r.IsReleased() {
			v.Date = r.Date.String()
		}
		for _, cat := range SortedCategories(r.Categories) {
			slot := v.Changes.slot(cat.Kind)
			if slot == nil {
				continue
			}
			for _, e := range cat.Entries {
				*slot = append(*slot, e.Text)
			}
		}
		doc.Versions = append(doc.Versions, v)
	}

	for _, l := range SortedVersionLinks(c.VersionLinks) {
		doc.Links = append(doc.Links, DocumentLink{Version: l.Version, URL: l.URL})
	}
	return doc
}

// FromDocument validates doc and converts it to a Changelog.
func FromDocument(doc Document) (*Changelog, error) {
	c := &Changelog{Title: doc.Title, Description: trimDescription(doc.Description)}

	for i, v := range doc.Versions {
		if strings.TrimSpace(v.Version) == "" {
			return nil, &ValidationError{
				Field:   fmt.Sprintf("versions[%d].version", i),
				Message: "required field is empty",
			}
		}

		r := Release{Version: strings.TrimSpace(v.Version), Yanked: v.Yanked}
		if v.Date != "" {
			d, ok := ParseReleaseDate(v.Date)
			if !ok {
				return nil, &ValidationError{
					Field:   fmt.Sprintf("versions[%d].date", i),
					Message: fmt.Sprintf("invalid date format %q (expected: YYYY-MM-DD)", v.Date),
				}
			}
			r.Date = d
		}

		for _, kind := range CategoryKinds() {
			texts := *v.Changes.slot(kind)
			if len(texts) == 0 {
				continue
			}
			cat := Category{Kind: kind}
			for j, text := range texts {
				if strings.TrimSpace(text) == "" {
					return nil, &ValidationError{
						Field:   fmt.Sprintf("versions[%d].changes.%s[%d]", i, strings.ToLower(kind.String()), j),
						Message: "change entry cannot be empty",
					}
				}
				cat.Entries = append(cat.Entries, Entry{Text: strings.TrimSpace(text)})
			}
			r.Categories = append(r.Categories, cat)
		}
		c.Releases = append(c.Releases, r)
	}

	for _, l := range doc.Links {
		c.VersionLinks = append(c.VersionLinks, VersionLink{Version: l.Version, URL: l.URL})
	}
	return c, nil
}

// ExportYAML writes the changelog as YAML.
func (c *Changelog) ExportYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c.ToDocument()); err != nil {
		return fmt.Errorf("encoding changelog YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the changelog as indented JSON.
func (c *Changelog) ExportJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.ToDocument()); err != nil {
		return fmt.Errorf("encoding changelog JSON: %w", err)
	}
	return nil
}

// ImportYAML reads a YAML document and validates it into a Changelog.
func ImportYAML(r io.Reader) (*Changelog, error) {
	var doc Document

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing changelog YAML: %w", err)
	}

	return FromDocument(doc)
}
