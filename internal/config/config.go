// Package config loads runtime configuration for the document
// generation host from a YAML or TOML file, with environment variable
// overrides applied on top.
//
// Precedence, lowest to highest: built-in defaults, the config file,
// DOCUGEN_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Errors returned by configuration operations.
var (
	// ErrFileNotFound indicates the configuration file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")

	// ErrUnknownFormat indicates the file extension is not .yaml, .yml, or .toml.
	ErrUnknownFormat = errors.New("unknown config format")

	// ErrInvalid indicates the configuration fails validation.
	ErrInvalid = errors.New("invalid configuration")
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "DOCUGEN_"

// Provider configures the language model used for generation.
type Provider struct {
	// Name selects the backend: anthropic, openai, gemini, or static.
	Name string `yaml:"name" toml:"name"`

	// Model is the provider-specific model identifier.
	Model string `yaml:"model" toml:"model"`

	// MaxTokens caps the completion length. Zero means the provider default.
	MaxTokens int `yaml:"max_tokens" toml:"max_tokens"`
}

// Config holds the host's runtime settings.
type Config struct {
	// PluginPaths lists directories scanned for plugins, in priority order.
	PluginPaths []string `yaml:"plugin_paths" toml:"plugin_paths"`

	// OutputDir is where published documents are written.
	OutputDir string `yaml:"output_dir" toml:"output_dir"`

	// Provider configures the generation backend.
	Provider Provider `yaml:"provider" toml:"provider"`

	// Watch enables live re-discovery when plugin directories change.
	Watch bool `yaml:"watch" toml:"watch"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		PluginPaths: []string{"plugins"},
		OutputDir:   "out",
		Provider: Provider{
			Name: "static",
		},
	}
}

// Load reads the file at path, chooses the decoder by extension, and
// applies environment overrides. An empty path returns defaults plus
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
			}
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}

		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case ".toml":
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
		}
	}

	cfg.applyEnv(os.Getenv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays DOCUGEN_* variables onto the config. Unset or
// empty variables leave the existing value alone.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvPrefix + "PLUGIN_PATHS"); v != "" {
		c.PluginPaths = splitList(v)
	}
	if v := getenv(EnvPrefix + "OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := getenv(EnvPrefix + "PROVIDER"); v != "" {
		c.Provider.Name = v
	}
	if v := getenv(EnvPrefix + "MODEL"); v != "" {
		c.Provider.Model = v
	}
	if v := getenv(EnvPrefix + "MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Provider.MaxTokens = n
		}
	}
	if v := getenv(EnvPrefix + "WATCH"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Watch = b
		}
	}
}

// Validate checks the configuration for values the host cannot run with.
func (c *Config) Validate() error {
	if len(c.PluginPaths) == 0 {
		return fmt.Errorf("%w: plugin_paths must not be empty", ErrInvalid)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%w: output_dir must not be empty", ErrInvalid)
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("%w: provider.name must not be empty", ErrInvalid)
	}
	if c.Provider.MaxTokens < 0 {
		return fmt.Errorf("%w: provider.max_tokens must not be negative", ErrInvalid)
	}
	return nil
}

// splitList splits a list value on commas or the OS path list
// separator, trimming whitespace and dropping empty entries.
func splitList(v string) []string {
	sep := ","
	if strings.ContainsRune(v, os.PathListSeparator) {
		sep = string(os.PathListSeparator)
	}
	var out []string
	for _, part := range strings.Split(v, sep) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
