package cli

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <category> <text...>",
	Short: "Add an entry to the Unreleased section",
	Long: `Add an entry to the Unreleased section, creating the section and the
category when they are missing. Categories are case-insensitive.

Examples:
  kacl add added "Export to JSON"
  kacl add Fixed Crash when the changelog is empty
  kacl add security "Bump golang.org/x/net"`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAdd(cmd, args[0], strings.Join(args[1:], " "))
	},
}

func init() {
	addCmd.GroupID = GroupEdit
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, category, text string) error {
	kind, ok := changelog.ParseCategoryKind(category)
	if !ok {
		return kerrors.InvalidCategory(category, categoryNames())
	}

	path := changelogPath()
	c, err := loadChangelog(path)
	if err != nil {
		return err
	}

	if err := c.AddEntry(kind, text); err != nil {
		return kerrors.NewArgumentError(fmt.Sprintf("invalid entry: %v", err), "Provide the entry text after the category")
	}

	if err := saveChangelog(c, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Added to %s > %s: %s\n", changelog.UnreleasedVersion, kind, strings.TrimSpace(text))
	return nil
}

func categoryNames() []string {
	kinds := changelog.CategoryKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = strings.ToLower(k.String())
	}
	return names
}
