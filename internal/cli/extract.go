package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var extractWithHeading bool

var extractCmd = &cobra.Command{
	Use:   "extract <version>",
	Short: "Print release notes for a version as markdown",
	Long: `Print the categories of one release as markdown.

The output is suitable for GitHub release bodies and other CI/CD pipelines
that publish notes derived from the changelog.

Examples:
  kacl extract v1.2.0 > notes.md   # v prefix optional
  kacl extract unreleased
  kacl extract 1.2.0 --heading     # Include the "## [1.2.0] - date" line`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExtract(cmd, args[0])
	},
}

func init() {
	extractCmd.GroupID = GroupView
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractWithHeading, "heading", false, "Include the release heading")
}

func runExtract(cmd *cobra.Command, version string) error {
	c, err := loadChangelog(changelogPath())
	if err != nil {
		return err
	}

	r, err := c.Release(version)
	if err != nil {
		return versionError(err)
	}

	notes := r.RenderNotes()
	if extractWithHeading {
		notes = r.Render()
	}
	if notes != "" {
		fmt.Fprintln(cmd.OutOrStdout(), notes)
	}
	return nil
}
