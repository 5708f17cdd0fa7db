package config

import "github.com/ariel-frischer/keepachangelog/internal/changelog"

// DefaultChangelogFile is the changelog path used when none is configured.
const DefaultChangelogFile = "CHANGELOG.md"

// GetDefaultConfigTemplate returns a commented config template written by
// `kacl init --config`.
func GetDefaultConfigTemplate() string {
	return `# kacl configuration
# Values can be overridden with KACL_* environment variables (e.g. KACL_REPO_URL).

file: CHANGELOG.md                    # Changelog path used when --file is not given
plain: false                          # Disable colors and icons
drop_empty_unreleased: false          # Drop an empty Unreleased section on fmt
repo_url: ""                          # Browse URL for compare links (empty = git origin)
tag_prefix: v                         # Prefix for release tags in compare links
max_width: 0                          # Terminal width (0 = auto-detect)
remote_timeout: 5s                    # Timeout for 'kacl show --url'
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"file":                  DefaultChangelogFile,
		"plain":                 false,
		"drop_empty_unreleased": false,
		"repo_url":              "",
		"tag_prefix":            "v",
		"max_width":             0,
		"remote_timeout":        changelog.DefaultRemoteTimeout.String(),
	}
}
