package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messyChangelog = `# Project

Notes.

## [Unreleased]
### fixed
- pending

## [1.0.0] - 2023-01-01
### Fixed
- bug
### Added
- feature
## [1.1.0] - 2024-01-01
### Changed
- change`

const canonicalChangelog = `# Project

Notes.

## [1.1.0] - 2024-01-01

### Changed

- change

## [1.0.0] - 2023-01-01

### Added

- feature

### Fixed

- bug

## [Unreleased]

### Fixed

- pending`

// workspace moves the test into an empty directory with no user config.
func workspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// resetFlags restores every flag in the tree to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func runCLIContext(ctx context.Context, t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(ctx)
	reportError(&stderr, err)
	return stdout.String(), stderr.String(), err
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runCLIContext(context.Background(), t, append(args, "--plain")...)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	tests := map[string]struct {
		flagName  string
		shorthand string
		defValue  string
	}{
		"config": {flagName: "config", defValue: ""},
		"file":   {flagName: "file", shorthand: "f", defValue: ""},
		"debug":  {flagName: "debug", defValue: "false"},
		"plain":  {flagName: "plain", defValue: "false"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, f, "flag %s should exist", tt.flagName)
			assert.Equal(t, tt.shorthand, f.Shorthand)
			assert.Equal(t, tt.defValue, f.DefValue)
		})
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]string{
		"init": GroupFiles, "fmt": GroupFiles, "export": GroupFiles, "import": GroupFiles,
		"show": GroupView, "extract": GroupView, "version": GroupView,
		"add": GroupEdit, "release": GroupEdit, "yank": GroupEdit, "links": GroupEdit,
	}

	got := make(map[string]string)
	for _, cmd := range rootCmd.Commands() {
		if cmd.GroupID != "" {
			got[cmd.Name()] = cmd.GroupID
		}
	}
	assert.Equal(t, want, got)
}

func TestExitCode(t *testing.T) {
	tests := map[string]struct {
		err  error
		want int
	}{
		"nil error":      {err: nil, want: ExitSuccess},
		"check failed":   {err: kerrors.NotCanonical([]string{"CHANGELOG.md"}), want: ExitValidationFailed},
		"argument error": {err: kerrors.InvalidFormat("toml"), want: ExitInvalidArguments},
		"wrapped prerequisite": {
			err: fmt.Errorf("loading: %w", kerrors.ChangelogNotFound("CHANGELOG.md")), want: ExitMissingFile,
		},
		"generic error": {err: errors.New("boom"), want: ExitValidationFailed},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	reportError(&buf, nil)
	assert.Empty(t, buf.String())

	plainFlag = true
	defer func() { plainFlag = false }()

	reportError(&buf, errors.New("disk on fire"))
	assert.Equal(t, "Error [Runtime Error]: disk on fire\n", buf.String())
}

func TestDebugFlag(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	_, stderr, err := runCLI(t, "show", "--debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "[cli] debug: config loaded")
	assert.Contains(t, stderr, "[changelog] debug: loaded CHANGELOG.md")

	_, stderr, err = runCLI(t, "show")
	require.NoError(t, err)
	assert.NotContains(t, stderr, "debug:")
}

func TestConfigError(t *testing.T) {
	workspace(t)
	writeFile(t, ".kacl.yml", "max_width: [broken\n")

	_, stderr, err := runCLI(t, "show")
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, stderr, "Configuration Error")
}

func TestInit(t *testing.T) {
	workspace(t)

	stdout, _, err := runCLI(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Created CHANGELOG.md")
	assert.Equal(t, changelog.New().Render(), readFile(t, "CHANGELOG.md"))

	_, stderr, err := runCLI(t, "init")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr, "kacl init --force")

	writeFile(t, "CHANGELOG.md", "junk")
	_, _, err = runCLI(t, "init", "--force", "--with-config")
	require.NoError(t, err)
	assert.Equal(t, changelog.New().Render(), readFile(t, "CHANGELOG.md"))
	assert.Contains(t, readFile(t, ".kacl.yml"), "tag_prefix: v")
}

func TestInit_FileFromConfig(t *testing.T) {
	workspace(t)
	writeFile(t, ".kacl.yml", "file: docs/CHANGES.md\n")
	require.NoError(t, os.MkdirAll("docs", 0o755))

	_, _, err := runCLI(t, "init")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join("docs", "CHANGES.md"))

	_, _, err = runCLI(t, "init", "-f", "OTHER.md")
	require.NoError(t, err)
	assert.FileExists(t, "OTHER.md")
}

func TestFmt(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", messyChangelog)

	stdout, stderr, err := runCLI(t, "fmt", "--check")
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, stdout, "✗ CHANGELOG.md is not formatted")
	assert.Contains(t, stderr, "Error [Check Failed]: 1 file(s) not formatted: CHANGELOG.md")
	assert.Equal(t, messyChangelog, readFile(t, "CHANGELOG.md"), "--check never writes")

	stdout, _, err = runCLI(t, "fmt")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Formatted CHANGELOG.md")
	assert.Equal(t, canonicalChangelog, readFile(t, "CHANGELOG.md"))

	stdout, _, err = runCLI(t, "fmt", "--check")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ CHANGELOG.md is formatted")
}

func TestFmt_MultipleFiles(t *testing.T) {
	workspace(t)

	paths := []string{"a/CHANGELOG.md", "b/CHANGELOG.md", "c/CHANGELOG.md"}
	for _, p := range paths {
		writeFile(t, p, messyChangelog)
	}
	writeFile(t, "b/CHANGELOG.md", canonicalChangelog)

	stdout, _, err := runCLI(t, append([]string{"fmt"}, paths...)...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, []string{
		"✓ Formatted a/CHANGELOG.md",
		"✓ b/CHANGELOG.md is formatted",
		"✓ Formatted c/CHANGELOG.md",
	}, lines, "results are reported in argument order")

	for _, p := range paths {
		assert.Equal(t, canonicalChangelog, readFile(t, p))
	}
}

func TestFmt_Errors(t *testing.T) {
	workspace(t)

	_, stderr, err := runCLI(t, "fmt", "missing.md")
	require.Error(t, err)
	assert.Equal(t, ExitMissingFile, ExitCode(err))
	assert.Contains(t, stderr, "changelog not found: missing.md")

	_, _, err = runCLI(t, "fmt", "--check", "--watch")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestFmt_DropEmptyUnreleased(t *testing.T) {
	workspace(t)
	input := "# T\n\nD\n\n## [Unreleased]\n\n## [1.0.0] - 2024-01-01\n\n### Added\n\n- x"
	writeFile(t, "CHANGELOG.md", input)

	_, _, err := runCLI(t, "fmt")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, "CHANGELOG.md"), "## [Unreleased]")

	_, _, err = runCLI(t, "fmt", "--drop-empty-unreleased")
	require.NoError(t, err)
	assert.Equal(t, "# T\n\nD\n\n## [1.0.0] - 2024-01-01\n\n### Added\n\n- x", readFile(t, "CHANGELOG.md"))

	writeFile(t, "CHANGELOG.md", input)
	writeFile(t, ".kacl.yml", "drop_empty_unreleased: true\n")
	_, _, err = runCLI(t, "fmt")
	require.NoError(t, err)
	assert.NotContains(t, readFile(t, "CHANGELOG.md"), "Unreleased")
}

// syncBuffer is a bytes.Buffer safe for a command writing in the background.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestFmt_Watch(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resetFlags(rootCmd)
	var stdout syncBuffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stdout)
	rootCmd.SetArgs([]string{"fmt", "--watch", "--plain"})

	done := make(chan error, 1)
	go func() { done <- rootCmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "Watching 1 file(s)")
	}, 5*time.Second, 10*time.Millisecond)
	// Let the watcher register its directory.
	time.Sleep(200 * time.Millisecond)

	writeFile(t, "CHANGELOG.md", messyChangelog)

	assert.Eventually(t, func() bool {
		data, err := os.ReadFile("CHANGELOG.md")
		return err == nil && string(data) == canonicalChangelog
	}, 5*time.Second, 50*time.Millisecond, "watcher should reformat the saved file")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("fmt --watch did not stop after cancel")
	}
	assert.Contains(t, stdout.String(), "✓ Formatted")
}
