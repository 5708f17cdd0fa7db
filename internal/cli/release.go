package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"
	"github.com/spf13/cobra"
)

var (
	releaseDate  string
	releaseLinks bool
	releaseRepo  string
)

// now is the clock used for default release dates.
var now = time.Now

var releaseCmd = &cobra.Command{
	Use:   "release <version>",
	Short: "Turn the Unreleased section into a release",
	Long: `Turn the Unreleased section into a dated release and open a new empty
Unreleased section. A leading "v" on the version is dropped.

With --links, the version links are regenerated as compare links. The
repository URL comes from --repo, the repo_url setting, or the git "origin"
remote, in that order.

Examples:
  kacl release 1.3.0
  kacl release v1.3.0 --date 2024-06-01
  kacl release 1.3.0 --links`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRelease(cmd, args[0])
	},
}

func init() {
	releaseCmd.GroupID = GroupEdit
	rootCmd.AddCommand(releaseCmd)

	releaseCmd.Flags().StringVar(&releaseDate, "date", "", "Release date as YYYY-MM-DD (default: today)")
	releaseCmd.Flags().BoolVar(&releaseLinks, "links", false, "Regenerate compare links")
	releaseCmd.Flags().StringVar(&releaseRepo, "repo", "", "Repository URL for --links")
}

func runRelease(cmd *cobra.Command, version string) error {
	version = normalizeNewVersion(version)

	date, err := resolveReleaseDate(releaseDate)
	if err != nil {
		return err
	}

	path := changelogPath()
	c, err := loadChangelog(path)
	if err != nil {
		return err
	}

	var previous string
	if latest := c.LatestRelease(); latest != nil {
		previous = fmt.Sprintf("%s (%s)", latest.Version, latest.Date)
	}
	if err := c.Promote(version, *date); err != nil {
		return promoteError(version, err)
	}

	if releaseLinks {
		repoURL, err := resolveRepoURL(releaseRepo, path)
		if err != nil {
			return err
		}
		c.SetVersionLinks(c.GenerateVersionLinks(repoURL, cfg.TagPrefix))
	}

	if err := saveChangelog(c, path); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Released %s on %s\n", version, date)
	if previous != "" {
		fmt.Fprintf(out, "  previous release: %s\n", previous)
	}
	return nil
}

func resolveReleaseDate(value string) (*changelog.ReleaseDate, error) {
	if value == "" {
		t := now()
		return changelog.NewReleaseDate(t.Year(), int(t.Month()), t.Day()), nil
	}
	d, ok := changelog.ParseReleaseDate(value)
	if !ok {
		return nil, kerrors.InvalidDate(value)
	}
	return d, nil
}

// normalizeNewVersion drops a leading "v" from a version such as "v1.2.0".
func normalizeNewVersion(version string) string {
	version = strings.TrimSpace(version)
	if len(version) > 1 && (version[0] == 'v' || version[0] == 'V') && version[1] >= '0' && version[1] <= '9' {
		return version[1:]
	}
	return version
}

func promoteError(version string, err error) error {
	switch {
	case errors.Is(err, changelog.ErrNothingToRelease):
		return kerrors.NothingToRelease()
	case errors.Is(err, changelog.ErrVersionExists):
		return kerrors.VersionExists(version)
	case errors.Is(err, changelog.ErrEmptyText):
		return kerrors.NewArgumentErrorWithUsage("version is required", "kacl release <version>")
	}
	return err
}
