package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the kacl CLI.
// These templates ensure consistent, actionable error messages.

// ChangelogNotFound creates an error for a missing changelog file.
func ChangelogNotFound(path string) *CLIError {
	return NewPrerequisiteError(
		fmt.Sprintf("changelog not found: %s", path),
		"Create one with: kacl init",
		"Or point at an existing file: kacl --file path/to/CHANGELOG.md",
	)
}

// ChangelogExists creates an error when init would overwrite a file.
func ChangelogExists(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("changelog already exists: %s", path),
		"Use 'kacl init --force' to overwrite it",
	)
}

// VersionNotFound creates an error for an unknown release version.
func VersionNotFound(version string, available []string) *CLIError {
	remediation := []string{"Versions can be given with or without a leading 'v'"}
	if len(available) > 0 {
		remediation = append([]string{"Available versions: " + strings.Join(available, ", ")}, remediation...)
	}
	return NewArgumentError(fmt.Sprintf("version not found: %s", version), remediation...)
}

// InvalidCategory creates an error for an unknown change category.
func InvalidCategory(name string, valid []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid category: %s", name),
		"kacl add <category> <text...>",
		"Valid categories: "+strings.Join(valid, ", "),
		"Example: kacl add fixed \"Crash when the file is empty\"",
	)
}

// InvalidDate creates an error for a malformed release date.
func InvalidDate(value string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid date: %s", value),
		"kacl release <version> --date YYYY-MM-DD",
		"Dates use the ISO 8601 form, e.g. 2024-01-31",
	)
}

// NotCanonical creates an error listing files that need formatting.
func NotCanonical(paths []string) *CLIError {
	return NewCheckError(
		fmt.Sprintf("%d file(s) not formatted: %s", len(paths), strings.Join(paths, ", ")),
		"Run 'kacl fmt' to rewrite them in canonical form",
	)
}

// NothingToRelease creates an error when the Unreleased section is empty.
func NothingToRelease() *CLIError {
	return NewPrerequisiteError(
		"no unreleased changes to release",
		"Add entries first: kacl add added \"New feature\"",
	)
}

// VersionExists creates an error when a release version is already present.
func VersionExists(version string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("version already exists: %s", version),
		"Choose a new version number",
		"List releases with: kacl show",
	)
}

// NoRepositoryURL creates an error when compare links cannot be generated.
func NoRepositoryURL() *CLIError {
	return NewConfigError(
		"could not determine the repository URL",
		"Pass it explicitly: kacl links --repo https://github.com/owner/repo",
		"Or set repo_url in .kacl.yml or KACL_REPO_URL",
		"Or add an 'origin' remote to the git repository",
	)
}

// ConfigParseError creates an error for an invalid config file.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check .kacl.yml and ~/.config/kacl/config.yml for YAML syntax errors",
		"Unset KACL_* environment variables to rule them out",
	)
}

// RemoteFetchFailed creates an error when a remote changelog cannot be read.
func RemoteFetchFailed(url string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("failed to fetch %s", url),
		"Check the URL points at a raw markdown file",
		"Increase remote_timeout in .kacl.yml for slow hosts",
	)
}

// FileNotWritable creates an error when a file cannot be written.
func FileNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write to file: %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure parent directory exists and is writable",
	)
}

// InvalidFormat creates an error for an unsupported export format.
func InvalidFormat(format string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unsupported format: %s", format),
		"kacl export --format yaml|json",
	)
}

// InvalidImport creates an error for a YAML document that cannot be imported.
func InvalidImport(path string, err error) *CLIError {
	return WrapWithMessage(err, Argument,
		fmt.Sprintf("cannot import %s", path),
		"Export an existing changelog to see the expected shape: kacl export",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'kacl <command> --help' to see valid options",
	)
}
