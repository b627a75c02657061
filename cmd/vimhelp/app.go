package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dshills/vimhelp-mcp/internal/config"
	"github.com/dshills/vimhelp-mcp/internal/logging"
	"github.com/dshills/vimhelp-mcp/internal/searcher"
	"github.com/dshills/vimhelp-mcp/internal/storage"
	"github.com/dshills/vimhelp-mcp/internal/tagfile"
)

// historySource marks lookups recorded by the CLI
const historySource = "cli"

// loadConfig loads the config file and applies the global flags on top
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if tags, _ := cmd.Flags().GetString("tags"); tags != "" {
		cfg.TagsPath = tags
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		if !logging.ValidLevel(level) {
			return nil, fmt.Errorf("invalid log level %q", level)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// newLogger writes to stderr; stdout carries command output or the MCP protocol
func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logging.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
}

func openResolver(cfg *config.Config, logger *slog.Logger) (*searcher.Resolver, error) {
	db, err := tagfile.Load(cfg.ResolvedTagsPath())
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded tag database",
		"path", cfg.ResolvedTagsPath(),
		"tags", db.Len(),
		"skipped", db.Skipped())

	return searcher.NewResolver(db, searcher.Options{
		CacheSize: cfg.CacheSize,
		Workers:   cfg.Workers,
		Logger:    logger,
	})
}

// openHistory returns nil when history is disabled
func openHistory(cfg *config.Config) (storage.Storage, error) {
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := storage.Open(cfg.ResolvedDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup history: %w", err)
	}
	return store, nil
}
