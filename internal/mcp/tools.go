package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/vimhelp-mcp/internal/searcher"
	"github.com/dshills/vimhelp-mcp/internal/storage"
	"github.com/dshills/vimhelp-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeEmptyQuery      = -32004 // Query parameter is empty
	ErrorCodeInvalidQuery    = -32005 // Query cannot be turned into search patterns
	ErrorCodeHistoryDisabled = -32006 // Lookup history is not recorded
)

const (
	defaultLimit = 10
	maxLimit     = 100
	maxTokens    = 50 // Per vim_help call
)

// handleVimHelp handles the vim_help tool invocation
func (s *Server) handleVimHelp(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	var tokens []string
	if raw, ok := args["tags"]; ok {
		tags, ok := raw.([]interface{})
		if !ok {
			return nil, newMCPError(ErrorCodeInvalidParams, "tags must be an array of strings", map[string]interface{}{
				"param": "tags",
			})
		}
		for _, t := range tags {
			str, ok := t.(string)
			if !ok {
				return nil, newMCPError(ErrorCodeInvalidParams, "tags must be an array of strings", map[string]interface{}{
					"param": "tags",
					"value": t,
				})
			}
			tokens = append(tokens, searcher.Tokens(str)...)
		}
	}
	tokens = append(tokens, searcher.Tokens(getStringDefault(args, "query", ""))...)

	if len(tokens) == 0 {
		return nil, newMCPError(ErrorCodeEmptyQuery, "tags or query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "tags",
			"reason": "missing or empty",
		})
	}
	if len(tokens) > maxTokens {
		return nil, newMCPError(ErrorCodeInvalidParams, fmt.Sprintf("at most %d queries per call", maxTokens), map[string]interface{}{
			"param": "tags",
			"count": len(tokens),
		})
	}

	requestID := uuid.NewString()
	resp, err := s.resolver.ResolveAll(ctx, tokens)
	if err != nil {
		s.logger.Warn("vim_help failed", "request_id", requestID, "error", err)
		return nil, newMCPError(ErrorCodeInternalError, "resolution failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
	s.logger.Debug("handled vim_help",
		"request_id", requestID,
		"queries", len(tokens),
		"found", len(resp.Found),
		"not_found", len(resp.NotFound),
		"duration", resp.Duration)

	s.recordHistory(ctx, resp)

	found := make([]map[string]interface{}, 0, len(resp.Found))
	for _, r := range resp.Found {
		found = append(found, map[string]interface{}{
			"query": r.Query,
			"name":  r.Tag.Name,
			"file":  r.Tag.File,
			"url":   r.URL,
			"score": r.Score,
			"kind":  string(r.Kind),
		})
	}
	notFound := resp.NotFound
	if notFound == nil {
		notFound = []string{}
	}

	response := map[string]interface{}{
		"found":       found,
		"not_found":   notFound,
		"duration_ms": resp.Duration.Milliseconds(),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleVimHelpCandidates handles the vim_help_candidates tool invocation
func (s *Server) handleVimHelpCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, newMCPError(ErrorCodeEmptyQuery, "query parameter is required and cannot be empty", map[string]interface{}{
			"param":  "query",
			"reason": "missing or empty",
		})
	}

	limit := getIntDefault(args, "limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	start := time.Now()
	matches, err := s.resolver.Candidates(query, limit)
	if err != nil {
		return nil, newMCPError(queryErrorCode(err), "invalid query", map[string]interface{}{
			"param":  "query",
			"reason": err.Error(),
		})
	}

	candidates := make([]map[string]interface{}, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, matchJSON(m))
	}

	response := map[string]interface{}{
		"query":       query,
		"found":       len(matches) > 0,
		"count":       len(matches),
		"candidates":  candidates,
		"duration_ms": time.Since(start).Milliseconds(),
	}
	// Candidates are stably sorted, so the first one is the selected tag
	if len(matches) > 0 {
		response["selected"] = matchJSON(matches[0])
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleVimTagLookup handles the vim_tag_lookup tool invocation
func (s *Server) handleVimTagLookup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	tag, found := s.resolver.Lookup(name)
	if !found {
		response := map[string]interface{}{
			"found": false,
			"name":  name,
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	response := map[string]interface{}{
		"found": true,
		"name":  tag.Name,
		"file":  tag.File,
		"url":   tag.URL(),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleVimHelpStats handles the vim_help_stats tool invocation
func (s *Server) handleVimHelpStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := arguments(request)
	if err != nil {
		return nil, err
	}

	limit := getIntDefault(args, "limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	db := s.resolver.Database()
	response := map[string]interface{}{
		"tag_database": map[string]interface{}{
			"tags":    db.Len(),
			"skipped": db.Skipped(),
		},
		"history_enabled": s.history != nil,
	}

	if s.history == nil {
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	stats, err := s.history.GetStats(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get lookup statistics", map[string]interface{}{
			"error": err.Error(),
		})
	}
	misses, err := s.history.TopMisses(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get top misses", map[string]interface{}{
			"error": err.Error(),
		})
	}
	tags, err := s.history.TopTags(ctx, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to get top tags", map[string]interface{}{
			"error": err.Error(),
		})
	}

	history := map[string]interface{}{
		"total_lookups":  stats.TotalLookups,
		"found_lookups":  stats.FoundLookups,
		"missed_lookups": stats.MissedLookups,
		"unique_queries": stats.UniqueQueries,
		"unique_tags":    stats.UniqueTags,
		"hit_rate":       fmt.Sprintf("%.2f", stats.HitRate()),
	}
	if stats.FirstLookupAt != nil {
		history["first_lookup_at"] = stats.FirstLookupAt.Format(time.RFC3339)
	}
	if stats.LastLookupAt != nil {
		history["last_lookup_at"] = stats.LastLookupAt.Format(time.RFC3339)
	}

	topMisses := make([]map[string]interface{}, 0, len(misses))
	for _, m := range misses {
		topMisses = append(topMisses, map[string]interface{}{
			"query": m.Query,
			"count": m.Count,
		})
	}
	topTags := make([]map[string]interface{}, 0, len(tags))
	for _, t := range tags {
		topTags = append(topTags, map[string]interface{}{
			"name":  t.Name,
			"file":  t.File,
			"count": t.Count,
		})
	}
	history["top_misses"] = topMisses
	history["top_tags"] = topTags
	response["history"] = history

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// recordHistory stores the outcome of a vim_help call. Failures are logged only.
func (s *Server) recordHistory(ctx context.Context, resp *searcher.Response) {
	if s.history == nil {
		return
	}

	if err := s.history.RecordLookups(ctx, storage.LookupsFromResponse(resp, HistorySource)); err != nil {
		s.logger.Warn("failed to record lookup history", "error", err)
	}
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// arguments returns the tool arguments as a map. Missing arguments are an empty map.
func arguments(request mcp.CallToolRequest) (map[string]interface{}, error) {
	if request.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	return args, nil
}

// queryErrorCode maps a pattern generation error to an MCP error code
func queryErrorCode(err error) int {
	if errors.Is(err, types.ErrEmptyQuery) {
		return ErrorCodeEmptyQuery
	}
	return ErrorCodeInvalidQuery
}

func matchJSON(m types.Match) map[string]interface{} {
	return map[string]interface{}{
		"name":     m.Tag.Name,
		"file":     m.Tag.File,
		"url":      m.Tag.URL(),
		"score":    m.Score,
		"kind":     string(m.Kind),
		"position": m.Position,
	}
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
