// Package git discovers the hosting URL of the repository holding a
// changelog, so compare links can be generated without configuration.
// It uses the go-git library and never shells out to the git CLI.
package git

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
)

// DefaultRemote is the remote consulted when none is named.
const DefaultRemote = "origin"

// ErrNoRemoteURL is returned when the remote exists but has no URL.
var ErrNoRemoteURL = errors.New("remote has no URL")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] debug: opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// IsGitRepository checks if path is within a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	return err == nil
}

// RemoteURL returns the first fetch URL of the named remote.
func RemoteURL(path, remoteName string) (string, error) {
	repo, err := openRepo(path)
	if err != nil {
		return "", err
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("looking up remote %s: %w", remoteName, err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return "", fmt.Errorf("%s: %w", remoteName, ErrNoRemoteURL)
	}

	logDebug("[git] debug: remote %s is %s", remoteName, urls[0])
	return urls[0], nil
}

// RepositoryURL returns the https browse URL of the origin remote of the
// repository containing path.
func RepositoryURL(path string) (string, error) {
	remote, err := RemoteURL(path, DefaultRemote)
	if err != nil {
		return "", err
	}
	return BrowseURL(remote)
}

// BrowseURL converts a clone URL into the https URL of the repository web page.
// It accepts scp-like ("git@host:owner/repo.git"), ssh://, git://, and
// http(s) URLs, and strips credentials and the ".git" suffix.
func BrowseURL(remote string) (string, error) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return "", ErrNoRemoteURL
	}

	if host, path, ok := splitSCPLike(remote); ok {
		return "https://" + host + "/" + trimRepoPath(path), nil
	}

	u, err := url.Parse(remote)
	if err != nil {
		return "", fmt.Errorf("parsing remote URL %q: %w", remote, err)
	}
	switch u.Scheme {
	case "http", "https", "ssh", "git", "git+ssh":
	default:
		return "", fmt.Errorf("unsupported remote URL %q", remote)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("remote URL %q has no host", remote)
	}

	scheme := "https"
	if u.Scheme == "http" {
		scheme = "http"
	}
	host := u.Hostname()
	if u.Port() != "" && (u.Scheme == "http" || u.Scheme == "https") {
		host = u.Host
	}
	return scheme + "://" + host + "/" + trimRepoPath(u.Path), nil
}

// splitSCPLike splits the "[user@]host:path" form. Without a user the host
// must contain a dot, so "C:" drive letters and bare words are not taken as hosts.
func splitSCPLike(remote string) (host, path string, ok bool) {
	if strings.Contains(remote, "://") {
		return "", "", false
	}
	colon := strings.Index(remote, ":")
	if colon <= 0 {
		return "", "", false
	}
	prefix := remote[:colon]
	if strings.Contains(prefix, "/") {
		return "", "", false
	}
	host = prefix
	at := strings.LastIndex(prefix, "@")
	if at >= 0 {
		host = prefix[at+1:]
	}
	if host == "" || (at < 0 && !strings.Contains(host, ".")) {
		return "", "", false
	}
	return host, remote[colon+1:], true
}

func trimRepoPath(p string) string {
	p = strings.Trim(p, "/")
	return strings.TrimSuffix(p, ".git")
}
