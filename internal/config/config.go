// Package config provides layered configuration for kacl using koanf.
// Configuration is loaded with priority: environment variables (KACL_*) >
// explicit --config file > project config (.kacl.yml, legacy .kacl.json) >
// user config (~/.config/kacl/config.yml) > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as config overrides.
const EnvPrefix = "KACL_"

// Configuration represents the kacl CLI configuration.
type Configuration struct {
	// File is the changelog path used when --file is not given.
	File string `koanf:"file" validate:"required"`
	// Plain disables colors and icons in terminal output.
	Plain bool `koanf:"plain"`
	// DropEmptyUnreleased removes an empty Unreleased section when formatting.
	DropEmptyUnreleased bool `koanf:"drop_empty_unreleased"`
	// RepoURL is the repository browse URL used for compare links.
	// When empty, the URL is derived from the git "origin" remote.
	RepoURL string `koanf:"repo_url" validate:"omitempty,http_url"`
	// TagPrefix is prepended to versions in compare links (e.g. "v").
	TagPrefix string `koanf:"tag_prefix"`
	// MaxWidth caps terminal line width (0 = auto-detect).
	MaxWidth int `koanf:"max_width" validate:"min=0"`
	// RemoteTimeout bounds `kacl show --url` fetches.
	RemoteTimeout time.Duration `koanf:"remote_timeout" validate:"min=0"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ConfigPath is an explicit config file (--config). It must exist.
	ConfigPath string
	// ProjectDir holds .kacl.yml / .kacl.json (default: current directory)
	ProjectDir string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
func Load(configPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ConfigPath: configPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectDir, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if opts.ConfigPath != "" {
		if err := loadExplicitConfig(k, opts.ConfigPath); err != nil {
			return nil, err
		}
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads ~/.config/kacl/config.yml when present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil || !fileExists(path) {
		return nil
	}
	if err := loadYAMLConfig(k, path, "user"); err != nil {
		return fmt.Errorf("loading user YAML config: %w", err)
	}
	return nil
}

// loadProjectConfig loads .kacl.yml, falling back to legacy .kacl.json with a
// warning. When both exist the YAML file wins and the JSON file is reported.
func loadProjectConfig(k *koanf.Koanf, dir string, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath := filepath.Join(dir, ProjectConfigPath())
	legacyPath := filepath.Join(dir, LegacyProjectConfigPath())

	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	switch {
	case yamlExists:
		if err := loadYAMLConfig(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project YAML config: %w", err)
		}
		if legacyExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Legacy JSON config found at %s (ignored, using %s)\n\n", legacyPath, yamlPath)
		}
	case legacyExists:
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("failed to load legacy project config %s: %w", legacyPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Rename it to %s and convert it to YAML.\n\n", ProjectConfigPath())
		}
	}
	return nil
}

// loadExplicitConfig loads the file named by --config, choosing the parser
// by extension.
func loadExplicitConfig(k *koanf.Koanf, path string) error {
	if !fileExists(path) {
		return fmt.Errorf("config file not found: %s", path)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
		return nil
	}
	return loadYAMLConfig(k, path, "explicit")
}

// loadYAMLConfig validates and loads a YAML config file
func loadYAMLConfig(k *koanf.Koanf, path, configType string) error {
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration.
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.File = strings.TrimSpace(cfg.File)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.File = expandHomePath(cfg.File)
	cfg.RepoURL = strings.TrimSuffix(cfg.RepoURL, "/")

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: KACL_REPO_URL -> repo_url
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
