package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	linksRepo      string
	linksTagPrefix string
	linksDryRun    bool
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "Regenerate version compare links",
	Long: `Rebuild the version links below the releases. Each release links to a
comparison with the release before it, the oldest release links to its tag,
and Unreleased compares the newest release with HEAD.

The repository URL comes from --repo, the repo_url setting, or the git
"origin" remote, in that order.

Examples:
  kacl links
  kacl links --repo https://github.com/owner/repo --tag-prefix ""
  kacl links --dry-run`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLinks(cmd)
	},
}

func init() {
	linksCmd.GroupID = GroupEdit
	rootCmd.AddCommand(linksCmd)

	linksCmd.Flags().StringVar(&linksRepo, "repo", "", "Repository URL (default: config repo_url or git origin)")
	linksCmd.Flags().StringVar(&linksTagPrefix, "tag-prefix", "", "Tag prefix (default: config tag_prefix)")
	linksCmd.Flags().BoolVar(&linksDryRun, "dry-run", false, "Print the links without writing")
}

func runLinks(cmd *cobra.Command) error {
	path := changelogPath()
	c, err := loadChangelog(path)
	if err != nil {
		return err
	}

	repoURL, err := resolveRepoURL(linksRepo, path)
	if err != nil {
		return err
	}

	prefix := cfg.TagPrefix
	if cmd.Flags().Changed("tag-prefix") {
		prefix = linksTagPrefix
	}

	links := c.GenerateVersionLinks(repoURL, prefix)
	if linksDryRun {
		for _, l := range links {
			fmt.Fprintln(cmd.OutOrStdout(), l.Render())
		}
		return nil
	}

	c.SetVersionLinks(links)
	if err := saveChangelog(c, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d version link(s) to %s\n", len(links), path)
	return nil
}
