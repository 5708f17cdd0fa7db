package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/keepachangelog/internal/changelog"
	kerrors "github.com/ariel-frischer/keepachangelog/internal/errors"
	"github.com/ariel-frischer/keepachangelog/internal/git"
)

// changelogPath returns the file named by --file, falling back to config.
func changelogPath() string {
	if fileFlag != "" {
		return fileFlag
	}
	return cfg.File
}

// loadChangelog reads the changelog at path, reporting a missing file as a
// prerequisite error.
func loadChangelog(path string) (*changelog.Changelog, error) {
	c, err := changelog.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, kerrors.ChangelogNotFound(path)
	}
	if err != nil {
		return nil, fmt.Errorf("loading changelog: %w", err)
	}
	return c, nil
}

func saveChangelog(c *changelog.Changelog, path string) error {
	if err := c.Save(path); err != nil {
		return kerrors.FileNotWritable(path, err)
	}
	return nil
}

func formatOptions() changelog.FormatOptions {
	return changelog.FormatOptions{Plain: isPlain(), MaxWidth: cfg.MaxWidth}
}

// versionError turns a lookup failure into a CLI error listing the
// available versions.
func versionError(err error) error {
	var notFound *changelog.VersionNotFoundError
	if errors.As(err, &notFound) {
		return kerrors.VersionNotFound(notFound.Version, notFound.AvailableVersions)
	}
	return err
}

// resolveRepoURL picks the repository URL for compare links: the explicit
// flag, then config, then the origin remote of the repository holding path.
func resolveRepoURL(flagValue, path string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if cfg.RepoURL != "" {
		return cfg.RepoURL, nil
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil || !git.IsGitRepository(dir) {
		log.Printf("[cli] debug: %s is not inside a git repository", filepath.Dir(path))
		return "", kerrors.NoRepositoryURL()
	}
	repoURL, err := git.RepositoryURL(dir)
	if err != nil {
		log.Printf("[cli] debug: no repository URL from git: %v", err)
		return "", kerrors.NoRepositoryURL()
	}
	return repoURL, nil
}
