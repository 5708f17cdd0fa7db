package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"
	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutput string
	importForce  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the changelog as YAML or JSON",
	Long: `Export the changelog as structured data. Versions are listed newest
first with their changes grouped by category.

Examples:
  kacl export                       # YAML to stdout
  kacl export --format json
  kacl export -o CHANGELOG.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExport(cmd)
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Create the changelog from a YAML export",
	Long: `Read a YAML document in the 'kacl export' shape, validate it, and write
it as a canonical markdown changelog.

Examples:
  kacl import CHANGELOG.yaml
  kacl import CHANGELOG.yaml --force   # Overwrite an existing CHANGELOG.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(cmd, args[0])
	},
}

func init() {
	exportCmd.GroupID = GroupFiles
	importCmd.GroupID = GroupFiles
	rootCmd.AddCommand(exportCmd, importCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "yaml", "Output format: yaml | json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Overwrite an existing changelog")
}

func runExport(cmd *cobra.Command) error {
	format := strings.ToLower(exportFormat)
	if format != "yaml" && format != "yml" && format != "json" {
		return kerrors.InvalidFormat(exportFormat)
	}

	c, err := loadChangelog(changelogPath())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return kerrors.FileNotWritable(exportOutput, err)
		}
		defer f.Close()
		w = f
	}

	if err := exportTo(c, w, format); err != nil {
		return err
	}
	if exportOutput != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %s to %s\n", changelogPath(), exportOutput)
	}
	return nil
}

func exportTo(c *changelog.Changelog, w io.Writer, format string) error {
	if format == "json" {
		return c.ExportJSON(w)
	}
	return c.ExportYAML(w)
}

func runImport(cmd *cobra.Command, source string) error {
	f, err := os.Open(source)
	if err != nil {
		if os.IsNotExist(err) {
			return kerrors.NewPrerequisiteError(fmt.Sprintf("import file not found: %s", source))
		}
		return fmt.Errorf("opening %s: %w", source, err)
	}
	defer f.Close()

	c, err := changelog.ImportYAML(f)
	if err != nil {
		return kerrors.InvalidImport(source, err)
	}

	path := changelogPath()
	if _, err := os.Stat(path); err == nil && !importForce {
		return kerrors.ChangelogExists(path)
	}

	if err := saveChangelog(c, path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d release(s) from %s into %s\n", len(c.Releases), source, path)
	return nil
}
