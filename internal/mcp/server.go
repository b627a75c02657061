package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/vimhelp-mcp/internal/config"
	"github.com/dshills/vimhelp-mcp/internal/searcher"
	"github.com/dshills/vimhelp-mcp/internal/storage"
	"github.com/dshills/vimhelp-mcp/internal/tagfile"
)

const (
	// ServerName is the MCP server name
	ServerName = "vimhelp-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// HistorySource marks lookups recorded by the MCP server
	HistorySource = "mcp"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	resolver *searcher.Resolver
	history  storage.Storage // Nil when history is disabled
	logger   *slog.Logger
}

// NewServer loads the tag database named by cfg and creates a server around it
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	db, err := tagfile.Load(cfg.ResolvedTagsPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load tag database: %w", err)
	}
	logger.Info("loaded tag database",
		"path", cfg.ResolvedTagsPath(),
		"tags", db.Len(),
		"skipped", db.Skipped())

	resolver, err := searcher.NewResolver(db, searcher.Options{
		CacheSize: cfg.CacheSize,
		Workers:   cfg.Workers,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	var history storage.Storage
	if cfg.History.Enabled {
		store, err := storage.Open(cfg.ResolvedDBPath())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		logger.Info("recording lookup history", "path", cfg.ResolvedDBPath(), "driver", storage.DriverName)
		history = store
	}

	return New(resolver, history, logger), nil
}

// New creates a server from already constructed components. history may be nil.
func New(resolver *searcher.Resolver, history storage.Storage, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		resolver: resolver,
		history:  history,
		logger:   logger,
	}
	s.registerTools()

	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.Close() }()

	return server.ServeStdio(s.mcp)
}

// Close releases the history database, if any
func (s *Server) Close() error {
	if s.history == nil {
		return nil
	}
	return s.history.Close()
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(vimHelpTool(), s.handleVimHelp)
	s.mcp.AddTool(vimHelpCandidatesTool(), s.handleVimHelpCandidates)
	s.mcp.AddTool(vimTagLookupTool(), s.handleVimTagLookup)
	s.mcp.AddTool(vimHelpStatsTool(), s.handleVimHelpStats)
}
