package cli

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShow(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	tests := map[string]struct {
		args     []string
		contains []string
		absent   []string
	}{
		"last entries": {
			args:     []string{"show"},
			contains: []string{"## Unreleased", "  - pending", "## v1.1.0", "## v1.0.0", "  - feature"},
		},
		"limited": {
			args:     []string{"show", "--last", "2"},
			contains: []string{"## Unreleased", "## v1.1.0", "(2 of 4 entries shown. Use --last 4 to see all)"},
			absent:   []string{"## v1.0.0"},
		},
		"one version": {
			args:     []string{"show", "v1.0.0"},
			contains: []string{"## v1.0.0 (2023-01-01)", "### Added", "  - feature", "### Fixed", "  - bug"},
			absent:   []string{"pending"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			stdout, _, err := runCLI(t, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, stdout, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, stdout, s)
			}
		})
	}
}

func TestShow_Errors(t *testing.T) {
	workspace(t)

	_, _, err := runCLI(t, "show")
	require.Error(t, err)
	assert.Equal(t, ExitMissingFile, ExitCode(err))

	writeFile(t, "CHANGELOG.md", canonicalChangelog)
	_, stderr, err := runCLI(t, "show", "9.9.9")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr, "version not found: 9.9.9")
	assert.Contains(t, stderr, "Available versions: 1.1.0, 1.0.0, Unreleased")

	writeFile(t, "CHANGELOG.md", "# Empty\n\nNothing yet.")
	stdout, _, err := runCLI(t, "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No changelog entries found.")
}

func TestShow_URL(t *testing.T) {
	workspace(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/CHANGELOG.md" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(canonicalChangelog))
	}))
	defer srv.Close()

	stdout, _, err := runCLI(t, "show", "1.1.0", "--url", srv.URL+"/CHANGELOG.md")
	require.NoError(t, err)
	assert.Contains(t, stdout, "  - change")

	_, stderr, err := runCLI(t, "show", "--url", srv.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, stderr, "failed to fetch")
	assert.Contains(t, stderr, "404")
}

func TestExtract(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	stdout, _, err := runCLI(t, "extract", "v1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "### Added\n\n- feature\n\n### Fixed\n\n- bug\n", stdout)

	stdout, _, err = runCLI(t, "extract", "1.1.0", "--heading")
	require.NoError(t, err)
	assert.Equal(t, "## [1.1.0] - 2024-01-01\n\n### Changed\n\n- change\n", stdout)

	_, _, err = runCLI(t, "extract", "2.0.0")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestAdd(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	stdout, _, err := runCLI(t, "add", "security", "Patched", "the", "parser")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Added to Unreleased > Security: Patched the parser")

	_, _, err = runCLI(t, "add", "FIXED", "another")
	require.NoError(t, err)

	c, err := changelog.Load("CHANGELOG.md")
	require.NoError(t, err)
	r := c.Unreleased()
	require.NotNil(t, r)
	assert.Equal(t, []changelog.Entry{{Text: "pending"}, {Text: "another"}}, r.Category(changelog.Fixed).Entries)
	assert.Equal(t, []changelog.Entry{{Text: "Patched the parser"}}, r.Category(changelog.Security).Entries)
}

func TestAdd_Errors(t *testing.T) {
	workspace(t)

	_, _, err := runCLI(t, "add", "fixed", "x")
	assert.Equal(t, ExitMissingFile, ExitCode(err))

	writeFile(t, "CHANGELOG.md", canonicalChangelog)
	_, stderr, err := runCLI(t, "add", "misc", "x")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr, "Valid categories: added, changed, deprecated, removed, fixed, security")

	_, _, err = runCLI(t, "add", "fixed", " ")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	_, _, err = runCLI(t, "add", "fixed")
	require.Error(t, err, "text is required")
}

func TestRelease(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	stdout, _, err := runCLI(t, "release", "v1.2.0", "--date", "2024-06-01")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Released 1.2.0 on 2024-06-01")
	assert.Contains(t, stdout, "previous release: 1.1.0 (2024-01-01)")

	c, err := changelog.Load("CHANGELOG.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2.0", "1.1.0", "1.0.0", "Unreleased"}, c.Versions())
	r, err := c.Release("1.2.0")
	require.NoError(t, err)
	assert.Equal(t, "pending", r.Entries()[0].Text)
	assert.True(t, c.Unreleased().IsEmpty())
}

func TestRelease_DefaultDate(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	now = func() time.Time { return time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = time.Now })

	_, _, err := runCLI(t, "release", "1.2.0")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, "CHANGELOG.md"), "## [1.2.0] - 2025-03-07")
}

func TestRelease_Errors(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	tests := map[string]struct {
		args     []string
		wantCode int
		wantErr  string
	}{
		"invalid date":     {args: []string{"release", "2.0.0", "--date", "June 1"}, wantCode: ExitInvalidArguments, wantErr: "invalid date"},
		"existing version": {args: []string{"release", "1.1.0"}, wantCode: ExitInvalidArguments, wantErr: "version already exists: 1.1.0"},
		"no repo for links": {
			args: []string{"release", "2.0.0", "--links"}, wantCode: ExitValidationFailed, wantErr: "could not determine the repository URL",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, stderr, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ExitCode(err))
			assert.Contains(t, stderr, tt.wantErr)
			assert.Equal(t, canonicalChangelog, readFile(t, "CHANGELOG.md"), "failed release leaves the file alone")
		})
	}

	writeFile(t, "CHANGELOG.md", "# T\n\nD\n\n## [Unreleased]")
	_, stderr, err := runCLI(t, "release", "1.0.0")
	require.Error(t, err)
	assert.Equal(t, ExitMissingFile, ExitCode(err))
	assert.Contains(t, stderr, "no unreleased changes to release")
}

func TestRelease_LinksFromGitRemote(t *testing.T) {
	dir := workspace(t)
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{Name: "origin", URLs: []string{"git@github.com:acme/widget.git"}})
	require.NoError(t, err)

	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	_, _, err = runCLI(t, "release", "1.2.0", "--date", "2024-06-01", "--links")
	require.NoError(t, err)

	content := readFile(t, "CHANGELOG.md")
	assert.Contains(t, content, "[Unreleased]: https://github.com/acme/widget/compare/v1.2.0...HEAD")
	assert.Contains(t, content, "[1.2.0]: https://github.com/acme/widget/compare/v1.1.0...v1.2.0")
	assert.Contains(t, content, "[1.0.0]: https://github.com/acme/widget/releases/tag/v1.0.0")
}

func TestYank(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	stdout, _, err := runCLI(t, "yank", "1.0.0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Marked 1.0.0 as [YANKED]")
	assert.Contains(t, readFile(t, "CHANGELOG.md"), "## [1.0.0] - 2023-01-01 [YANKED]")

	stdout, _, err = runCLI(t, "yank", "v1.0.0")
	require.NoError(t, err)
	assert.Contains(t, stdout, "already yanked")

	_, _, err = runCLI(t, "yank", "unreleased")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	_, _, err = runCLI(t, "yank", "3.0.0")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestLinks(t *testing.T) {
	workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	stdout, _, err := runCLI(t, "links", "--repo", "https://example.com/r", "--tag-prefix", "", "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "[Unreleased]: https://example.com/r/compare/1.1.0...HEAD\n"+
		"[1.1.0]: https://example.com/r/compare/1.0.0...1.1.0\n"+
		"[1.0.0]: https://example.com/r/releases/tag/1.0.0\n", stdout)
	assert.Equal(t, canonicalChangelog, readFile(t, "CHANGELOG.md"))

	writeFile(t, ".kacl.yml", "repo_url: https://example.com/cfg\ntag_prefix: release-\n")
	stdout, _, err = runCLI(t, "links")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Wrote 3 version link(s) to CHANGELOG.md")
	assert.Contains(t, readFile(t, "CHANGELOG.md"), "[1.0.0]: https://example.com/cfg/releases/tag/release-1.0.0")
}

func TestExportImport(t *testing.T) {
	dir := workspace(t)
	writeFile(t, "CHANGELOG.md", canonicalChangelog)

	stdout, _, err := runCLI(t, "export")
	require.NoError(t, err)
	assert.Contains(t, stdout, "title: Project")
	assert.Contains(t, stdout, "version: 1.1.0")

	stdout, _, err = runCLI(t, "export", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"title": "Project"`)

	_, _, err = runCLI(t, "export", "--format", "toml")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	yamlPath := filepath.Join(dir, "CHANGELOG.yaml")
	stdout, _, err = runCLI(t, "export", "-o", yamlPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Exported")

	_, _, err = runCLI(t, "import", yamlPath)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err), "refuses to overwrite")

	stdout, _, err = runCLI(t, "import", yamlPath, "-f", "COPY.md")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Imported 3 release(s)")
	assert.Equal(t, canonicalChangelog, readFile(t, "COPY.md"))
}

func TestImport_Errors(t *testing.T) {
	workspace(t)

	_, _, err := runCLI(t, "import", "missing.yaml")
	assert.Equal(t, ExitMissingFile, ExitCode(err))

	writeFile(t, "bad.yaml", "title: T\nversions:\n  - version: 1.0.0\n    date: nope\n")
	_, stderr, err := runCLI(t, "import", "bad.yaml")
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
	assert.Contains(t, stderr, "versions[0].date")
	_, statErr := os.Stat("CHANGELOG.md")
	assert.True(t, os.IsNotExist(statErr))
}

func TestVersion(t *testing.T) {
	workspace(t)

	stdout, _, err := runCLI(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "kacl dev (commit unknown, built unknown)\n", stdout)

	stdout, _, err = runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "kacl: dev")
	assert.Contains(t, stdout, "platform: ")
	assert.Contains(t, stdout, "(development build)")
}

func TestNormalizeNewVersion(t *testing.T) {
	tests := map[string]string{
		"v1.2.0":  "1.2.0",
		"V2":      "2",
		" 1.0.0 ": "1.0.0",
		"vnext":   "vnext",
		"v":       "v",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, normalizeNewVersion(in))
		})
	}
}
