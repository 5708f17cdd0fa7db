package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/kacl/config.yml
// - macOS: ~/Library/Application Support/kacl/config.yml
// - Windows: %APPDATA%\kacl\config.yml
//
// If XDG_CONFIG_HOME is set, it will be respected on Linux.
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yml"), nil
}

// UserConfigDir returns the path to the user-level config directory.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "kacl"), nil
}

// ProjectConfigPath returns the project-level config file name, relative to
// the project directory.
func ProjectConfigPath() string {
	return ".kacl.yml"
}

// LegacyProjectConfigPath returns the legacy project-level JSON config file name.
func LegacyProjectConfigPath() string {
	return ".kacl.json"
}
