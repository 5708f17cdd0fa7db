// Package changelog reads and writes Keep a Changelog documents.
//
// This package implements:
//   - A line-oriented parser that turns loosely formatted CHANGELOG.md text
//     into a Changelog tree, dropping lines it does not recognize
//   - A canonical renderer with a fixed release, category, and link order
//   - Queries and edits used by the kacl CLI (add, release, yank, links)
//   - YAML/JSON export and terminal formatting
//
// Rendering a canonical document after parsing it reproduces the input byte
// for byte. See https://keepachangelog.com/en/1.1.0/ for the format.
package changelog
