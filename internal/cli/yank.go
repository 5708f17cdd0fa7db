package cli

import (
	"fmt"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"
	"github.com/spf13/cobra"
)

var yankCmd = &cobra.Command{
	Use:   "yank <version>",
	Short: "Mark a release as yanked",
	Long: `Mark a release as yanked. The heading gains a [YANKED] marker; entries
are kept.

Examples:
  kacl yank 0.0.5`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runYank(cmd, args[0])
	},
}

func init() {
	yankCmd.GroupID = GroupEdit
	rootCmd.AddCommand(yankCmd)
}

func runYank(cmd *cobra.Command, version string) error {
	path := changelogPath()
	c, err := loadChangelog(path)
	if err != nil {
		return err
	}

	r, err := c.Release(version)
	if err != nil {
		return versionError(err)
	}
	if r.IsUnreleased() {
		return kerrors.NewArgumentError(
			fmt.Sprintf("%s has not been released", r.Version),
			"Only dated releases can be yanked",
		)
	}
	if r.Yanked {
		fmt.Fprintf(cmd.OutOrStdout(), "• %s is already yanked\n", r.Version)
		return nil
	}

	if err := c.Yank(version); err != nil {
		return err
	}
	if err := saveChangelog(c, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Marked %s as %s\n", r.Version, changelog.YankedMarker)
	return nil
}
