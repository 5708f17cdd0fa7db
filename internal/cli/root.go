// Package cli implements the kacl command tree.
package cli

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	"github.com/ariel-frischer/keepachangelog/internal/config"
	kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"
	"github.com/ariel-frischer/keepachangelog/internal/git"
	"github.com/ariel-frischer/keepachangelog/internal/watch"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Command groups shown in help output.
const (
	GroupView  = "view"
	GroupEdit  = "edit"
	GroupFiles = "files"
)

var (
	configFlag string
	fileFlag   string
	debugFlag  bool
	plainFlag  bool

	// cfg is loaded before every command runs.
	cfg *config.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "kacl",
	Short: "Parse, format, and edit Keep a Changelog files",
	Long: `kacl reads CHANGELOG.md files written in the Keep a Changelog format
(https://keepachangelog.com) and writes them back in a canonical layout:
releases newest first with Unreleased last, categories in a fixed order, and
version links sorted below.

Configuration is read from ~/.config/kacl/config.yml, .kacl.yml, and
KACL_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: GroupView, Title: "Viewing:"},
		&cobra.Group{ID: GroupEdit, Title: "Editing:"},
		&cobra.Group{ID: GroupFiles, Title: "Files:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFlag, "config", "", "Config file (default: .kacl.yml and ~/.config/kacl/config.yml)")
	pf.StringVarP(&fileFlag, "file", "f", "", "Changelog file (default: config 'file' or CHANGELOG.md)")
	pf.BoolVar(&debugFlag, "debug", false, "Enable debug logging to stderr")
	pf.BoolVar(&plainFlag, "plain", false, "Plain output (no colors/icons)")
}

// Execute runs the root command and reports any error to stderr.
// Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	reportError(rootCmd.ErrOrStderr(), err)
	return err
}

func setup(cmd *cobra.Command) error {
	configureLogging(cmd.ErrOrStderr())

	loaded, err := config.LoadWithOptions(config.LoadOptions{
		ConfigPath:    configFlag,
		WarningWriter: cmd.ErrOrStderr(),
	})
	if err != nil {
		return kerrors.ConfigParseError(err)
	}
	cfg = loaded
	log.Printf("[cli] debug: config loaded: file=%s repo_url=%q tag_prefix=%q", cfg.File, cfg.RepoURL, cfg.TagPrefix)

	if isPlain() {
		color.NoColor = true
	}
	return nil
}

// configureLogging routes the std logger and the package debug hooks to w
// when --debug is set, and silences them otherwise.
func configureLogging(w io.Writer) {
	if !debugFlag {
		log.SetOutput(io.Discard)
		changelog.SetDebugLogger(nil)
		git.SetDebugLogger(nil)
		watch.SetDebugLogger(nil)
		return
	}

	log.SetOutput(w)
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	changelog.SetDebugLogger(log.Printf)
	git.SetDebugLogger(log.Printf)
	watch.SetDebugLogger(log.Printf)
}

// reportError prints err as a formatted CLIError.
func reportError(w io.Writer, err error) {
	if err == nil {
		return
	}

	cliErr := kerrors.AsCLIError(err)
	if cliErr == nil {
		cliErr = kerrors.Wrap(err, kerrors.Runtime)
	}
	kerrors.FprintError(w, cliErr, isPlain())
}

func isPlain() bool {
	return plainFlag || (cfg != nil && cfg.Plain)
}
