package cli

import (
	"fmt"
	"os"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	"github.com/ariel-frischer/keepachangelog/internal/config"
	kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"
	"github.com/spf13/cobra"
)

var (
	initForce      bool
	initWithConfig bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new changelog",
	Long: `Create a new changelog with the standard title, the Keep a Changelog
description, and an empty Unreleased section.

Examples:
  kacl init                  # Create CHANGELOG.md
  kacl init -f HISTORY.md    # Create a differently named file
  kacl init --force          # Overwrite an existing file
  kacl init --with-config    # Also write a commented .kacl.yml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInit(cmd)
	},
}

func init() {
	initCmd.GroupID = GroupFiles
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing changelog")
	initCmd.Flags().BoolVar(&initWithConfig, "with-config", false, "Also write "+config.ProjectConfigPath())
}

func runInit(cmd *cobra.Command) error {
	path := changelogPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return kerrors.ChangelogExists(path)
	}

	if err := saveChangelog(changelog.New(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)

	if !initWithConfig {
		return nil
	}

	cfgPath := config.ProjectConfigPath()
	if _, err := os.Stat(cfgPath); err == nil && !initForce {
		fmt.Fprintf(cmd.OutOrStdout(), "• %s already exists, skipped\n", cfgPath)
		return nil
	}
	if err := os.WriteFile(cfgPath, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
		return kerrors.FileNotWritable(cfgPath, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", cfgPath)
	return nil
}
