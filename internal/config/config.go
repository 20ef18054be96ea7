// Package config loads layered jsonai configuration.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
)

// ProjectFileName is the per-directory config file.
const ProjectFileName = ".jsonai.yaml"

// Config represents the complete jsonai configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search" json:"search"`
	Paths   PathsConfig   `yaml:"paths" json:"paths"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// SearchConfig holds defaults for search flags.
type SearchConfig struct {
	// Limit is the maximum number of results returned.
	Limit int `yaml:"limit" json:"limit"`
	// Threshold is the match count above which a plan replaces results.
	Threshold int `yaml:"threshold" json:"threshold"`
	// MaxBytes bounds the serialized response. Zero means unlimited.
	MaxBytes int `yaml:"max_bytes" json:"max_bytes"`
	// Match is the default match mode.
	Match string `yaml:"match" json:"match"`
	// Output is the default output mode.
	Output string `yaml:"output" json:"output"`
}

// PathsConfig configures directory traversal.
type PathsConfig struct {
	Exclude          []string `yaml:"exclude" json:"exclude"`
	RespectGitignore bool     `yaml:"respect_gitignore" json:"respect_gitignore"`
}

// OutputConfig configures serialization.
type OutputConfig struct {
	// Pretty indents stdout responses.
	Pretty bool `yaml:"pretty" json:"pretty"`
	// CompactFiles writes mutated files without indentation.
	CompactFiles bool `yaml:"compact_files" json:"compact_files"`
}

// LoggingConfig configures diagnostics.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

var (
	validMatchModes  = map[string]bool{"text": true, "exact": true, "fuzzy": true, "regex": true}
	validOutputModes = map[string]bool{"match": true, "hit": true, "value": true}
	validLevels      = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
)

// NewConfig returns a configuration with built-in defaults.
func NewConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Limit:     20,
			Threshold: 50,
			MaxBytes:  0,
			Match:     "text",
			Output:    "match",
		},
		Paths: PathsConfig{
			RespectGitignore: true,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// GetUserConfigPath returns the user config file path, honoring XDG_CONFIG_HOME.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "jsonai", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "jsonai", "config.yaml")
	}
	return filepath.Join(home, ".config", "jsonai", "config.yaml")
}

// Load resolves configuration in order of increasing precedence:
//  1. Hardcoded defaults
//  2. User config (~/.config/jsonai/config.yaml)
//  3. Project config (.jsonai.yaml in dir)
//  4. Environment variables (JSONAI_*)
//  5. The explicit file, when non-empty
//
// CLI flags are applied by the caller on top of the result.
func Load(dir, explicit string) (*Config, error) {
	cfg := NewConfig()

	if path := GetUserConfigPath(); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if path := filepath.Join(dir, ProjectFileName); fileExists(path) {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if explicit != "" {
		if !fileExists(explicit) {
			return nil, jerrors.New(jerrors.ErrCodeConfigNotFound,
				fmt.Sprintf("config file %s not found", explicit), nil)
		}
		if err := cfg.loadYAML(explicit); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAML overlays the keys present in path onto c. Unknown keys are rejected.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return jerrors.ConfigError(fmt.Sprintf("failed to read config file %s", path), err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && err != io.EOF {
		return jerrors.ConfigError(fmt.Sprintf("failed to parse config file %s", path), err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	ints := []struct {
		name string
		dst  *int
	}{
		{"JSONAI_LIMIT", &c.Search.Limit},
		{"JSONAI_THRESHOLD", &c.Search.Threshold},
		{"JSONAI_MAX_BYTES", &c.Search.MaxBytes},
	}
	for _, e := range ints {
		v := os.Getenv(e.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return jerrors.ConfigError(fmt.Sprintf("%s must be an integer, got %q", e.name, v), err)
		}
		*e.dst = n
	}

	if v := os.Getenv("JSONAI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("JSONAI_RESPECT_GITIGNORE"); v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return jerrors.ConfigError(fmt.Sprintf("JSONAI_RESPECT_GITIGNORE must be a boolean, got %q", v), err)
		}
		c.Paths.RespectGitignore = b
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Search.Limit < 0 {
		return jerrors.ConfigError(fmt.Sprintf("search.limit must be non-negative, got %d", c.Search.Limit), nil)
	}
	if c.Search.Threshold < 0 {
		return jerrors.ConfigError(fmt.Sprintf("search.threshold must be non-negative, got %d", c.Search.Threshold), nil)
	}
	if c.Search.MaxBytes < 0 {
		return jerrors.ConfigError(fmt.Sprintf("search.max_bytes must be non-negative, got %d", c.Search.MaxBytes), nil)
	}
	if !validMatchModes[strings.ToLower(c.Search.Match)] {
		return jerrors.ConfigError(fmt.Sprintf("search.match must be 'text', 'exact', 'fuzzy', or 'regex', got %s", c.Search.Match), nil)
	}
	if !validOutputModes[strings.ToLower(c.Search.Output)] {
		return jerrors.ConfigError(fmt.Sprintf("search.output must be 'match', 'hit', or 'value', got %s", c.Search.Output), nil)
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return jerrors.ConfigError(fmt.Sprintf("logging.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Logging.Level), nil)
	}
	return nil
}

// WriteYAML writes the configuration to path, creating its directory.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
