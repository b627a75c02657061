// Package config provides configuration loading for the vimhelp server.
// Settings come from an optional YAML file, then environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/vimhelp-mcp/internal/logging"
	"github.com/dshills/vimhelp-mcp/internal/tagfile"
)

// Environment variables
const (
	EnvConfigPath = "VIMHELP_CONFIG"
	EnvTagsPath   = "VIMHELP_TAGS_PATH"
	EnvDBPath     = "VIMHELP_DB_PATH"
	EnvLogLevel   = "VIMHELP_LOG_LEVEL"
	EnvCacheSize  = "VIMHELP_CACHE_SIZE"
	EnvHistory    = "VIMHELP_HISTORY"
)

// Config represents the vimhelp configuration
type Config struct {
	TagsPath  string        `yaml:"tags_path"`  // Neovim doc/tags file
	LogLevel  string        `yaml:"log_level"`  // trace, debug, info, warn, error
	CacheSize int           `yaml:"cache_size"` // Cached resolutions (0 = disabled)
	Workers   int           `yaml:"workers"`    // Concurrent resolutions per request
	History   HistoryConfig `yaml:"history"`
}

// HistoryConfig holds lookup history settings
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"` // Record lookups in SQLite
	DBPath  string `yaml:"db_path"` // Database file (supports ~)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TagsPath:  tagfile.DefaultPath,
		LogLevel:  "info",
		CacheSize: 512,
		Workers:   4,
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join("~", ".vimhelp", "history.db"),
		},
	}
}

// DefaultConfigFile returns ~/.config/vimhelp/config.yaml, honoring XDG_CONFIG_HOME
func DefaultConfigFile() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(homeDir(), ".config")
	}
	return filepath.Join(configHome, "vimhelp", "config.yaml")
}

// Load loads configuration from VIMHELP_CONFIG or the default config file
func Load() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = DefaultConfigFile()
	}
	return LoadFromFile(path)
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, returns default configuration.
// Environment variable overrides are applied after file loading.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ExpandHome(path))
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ApplyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyEnvOverrides applies environment variable overrides to the config
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvTagsPath); v != "" {
		c.TagsPath = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.History.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if logging.ValidLevel(v) {
			c.LogLevel = strings.ToLower(v)
		}
	}
	if v := os.Getenv(EnvCacheSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheSize = n
		}
	}
	if v := os.Getenv(EnvHistory); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.History.Enabled = b
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.TagsPath == "" {
		return errors.New("tags_path is required")
	}
	if !logging.ValidLevel(c.LogLevel) {
		return fmt.Errorf("log_level must be trace, debug, info, warn, or error (got: %s)", c.LogLevel)
	}
	if c.CacheSize < 0 {
		return errors.New("cache_size must be >= 0")
	}
	if c.Workers < 1 {
		return errors.New("workers must be >= 1")
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return errors.New("history.db_path is required when history is enabled")
	}
	return nil
}

// ResolvedTagsPath returns TagsPath with ~ expanded
func (c *Config) ResolvedTagsPath() string {
	return ExpandHome(c.TagsPath)
}

// ResolvedDBPath returns History.DBPath with ~ expanded
func (c *Config) ResolvedDBPath() string {
	return ExpandHome(c.History.DBPath)
}

// ExpandHome replaces a leading ~ with the user's home directory
func ExpandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
