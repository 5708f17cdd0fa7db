package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"
	"github.com/ariel-frischer/keepachangelog/internal/progress"
	"github.com/spf13/cobra"
)

var (
	showLast int
	showURL  string
)

var showCmd = &cobra.Command{
	Use:   "show [version]",
	Short: "Show changelog entries in the terminal",
	Long: `Show changelog entries with color-coded categories.

By default, shows the 10 most recent entries, unreleased first. Use a version
argument to see one release, or --last to control the entry count.

Examples:
  kacl show                    # 10 most recent entries
  kacl show v1.2.0             # All entries for 1.2.0 (v prefix optional)
  kacl show unreleased         # Pending changes
  kacl show --last 25
  kacl show --url https://raw.githubusercontent.com/owner/repo/main/CHANGELOG.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(cmd, args)
	},
}

func init() {
	showCmd.GroupID = GroupView
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVar(&showLast, "last", 10, "Number of entries to show")
	showCmd.Flags().StringVar(&showURL, "url", "", "Read the changelog from a URL instead of a file")
}

func runShow(cmd *cobra.Command, args []string) error {
	c, err := loadShowSource(cmd)
	if err != nil {
		return err
	}

	opts := formatOptions()
	if len(args) == 1 {
		r, err := c.Release(args[0])
		if err != nil {
			return versionError(err)
		}
		return changelog.FormatRelease(r, cmd.OutOrStdout(), opts)
	}

	return showLastEntries(c, showLast, cmd.OutOrStdout(), opts)
}

func loadShowSource(cmd *cobra.Command) (*changelog.Changelog, error) {
	if showURL == "" {
		return loadChangelog(changelogPath())
	}

	timeout := cfg.RemoteTimeout
	if timeout <= 0 {
		timeout = changelog.DefaultRemoteTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	stop := startSpinner(cmd.ErrOrStderr(), "Fetching "+showURL)
	c, err := changelog.FetchURL(ctx, showURL)
	stop()
	if err != nil {
		return nil, kerrors.RemoteFetchFailed(showURL, err)
	}
	return c, nil
}

func showLastEntries(c *changelog.Changelog, n int, w io.Writer, opts changelog.FormatOptions) error {
	entries := c.LastN(n)
	if len(entries) == 0 {
		fmt.Fprintln(w, "No changelog entries found.")
		return nil
	}

	if err := changelog.FormatTerminal(entries, w, opts); err != nil {
		return fmt.Errorf("formatting entries: %w", err)
	}

	total := c.EntryCount()
	if total > len(entries) {
		fmt.Fprintf(w, "\n(%d of %d entries shown. Use --last %d to see all)\n",
			len(entries), total, total)
	}
	return nil
}

// startSpinner shows a spinner on w while a slow operation runs. It only
// animates on an interactive stderr without --plain. The returned func stops it.
func startSpinner(w io.Writer, message string) func() {
	if isPlain() || w != os.Stderr {
		return func() {}
	}
	return progress.Start(w, progress.Detect(os.Stderr), message)
}
