package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"
	"github.com/ariel-frischer/keepachangelog/internal/watch"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	fmtCheck               bool
	fmtWatch               bool
	fmtDropEmptyUnreleased bool
)

var fmtCmd = &cobra.Command{
	Use:   "fmt [files...]",
	Short: "Rewrite changelogs in canonical form",
	Long: `Parse each changelog and write it back in canonical form.

Releases are ordered newest first with unreleased sections last, categories
follow the Added, Changed, Deprecated, Removed, Fixed, Security order, and
version links are sorted by version. Unrecognized categories and stray text
are dropped.

With --check nothing is written; the command exits 1 if any file would change.
With --watch the files are formatted again whenever they are saved.

Examples:
  kacl fmt                          # Format CHANGELOG.md
  kacl fmt a/CHANGELOG.md b/CHANGELOG.md
  kacl fmt --check                  # CI: fail on unformatted files
  kacl fmt --watch                  # Keep formatting while editing`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runFmt(cmd, args)
	},
}

func init() {
	fmtCmd.GroupID = GroupFiles
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Report unformatted files without writing")
	fmtCmd.Flags().BoolVar(&fmtWatch, "watch", false, "Reformat files when they change")
	fmtCmd.Flags().BoolVar(&fmtDropEmptyUnreleased, "drop-empty-unreleased", false,
		"Remove an Unreleased section with no entries (default: config drop_empty_unreleased)")
}

// fmtResult is the outcome of formatting one file.
type fmtResult struct {
	path    string
	changed bool
}

func runFmt(cmd *cobra.Command, args []string) error {
	if fmtCheck && fmtWatch {
		return kerrors.InvalidFlagCombination("--check --watch", "--check reports once; --watch rewrites files as they change")
	}

	files := args
	if len(files) == 0 {
		files = []string{changelogPath()}
	}
	drop := fmtDropEmptyUnreleased || cfg.DropEmptyUnreleased

	results, err := formatFiles(cmd, files, drop, !fmtCheck)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var unformatted []string
	for _, r := range results {
		reportFmtResult(out, r, fmtCheck)
		if r.changed {
			unformatted = append(unformatted, r.path)
		}
	}

	if fmtCheck && len(unformatted) > 0 {
		return kerrors.NotCanonical(unformatted)
	}

	if fmtWatch {
		return watchAndFormat(cmd, files, drop)
	}
	return nil
}

// formatFiles formats every file concurrently. Results keep the order of paths.
func formatFiles(cmd *cobra.Command, paths []string, drop, write bool) ([]fmtResult, error) {
	results := make([]fmtResult, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changed, err := formatFile(path, drop, write)
			if err != nil {
				return err
			}
			results[i] = fmtResult{path: path, changed: changed}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// formatFile renders the file canonically and reports whether the canonical
// form differs from its contents. The file is rewritten only when write is
// set and the content changed.
func formatFile(path string, drop, write bool) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, kerrors.ChangelogNotFound(path)
	}
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	c := changelog.ParseString(string(data))
	if drop {
		c = changelog.DropEmptyUnreleased(c)
	}

	canonical := c.Render()
	if canonical == string(data) {
		log.Printf("[cli] debug: %s already canonical", path)
		return false, nil
	}

	if write {
		if err := os.WriteFile(path, []byte(canonical), 0o644); err != nil {
			return true, kerrors.FileNotWritable(path, err)
		}
	}
	return true, nil
}

func reportFmtResult(w io.Writer, r fmtResult, check bool) {
	switch {
	case !r.changed:
		fmt.Fprintf(w, "✓ %s is formatted\n", r.path)
	case check:
		fmt.Fprintf(w, "✗ %s is not formatted\n", r.path)
	default:
		fmt.Fprintf(w, "✓ Formatted %s\n", r.path)
	}
}

// watchAndFormat reformats files as they are saved until interrupted.
// Writing a canonical file produces one more event, which then finds
// nothing to change.
func watchAndFormat(cmd *cobra.Command, files []string, drop bool) error {
	w, err := watch.New(files...)
	if err != nil {
		return err
	}
	defer w.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %d file(s) for changes (Ctrl+C to stop)\n", len(files))

	return w.Run(cmd.Context(), func(path string) {
		changed, err := formatFile(path, drop, true)
		if err != nil {
			reportError(cmd.ErrOrStderr(), err)
			return
		}
		if changed {
			fmt.Fprintf(out, "✓ Formatted %s\n", path)
		}
	})
}
