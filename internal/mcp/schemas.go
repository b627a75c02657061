package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// vimHelpTool returns the tool definition for vim_help
func vimHelpTool() mcp.Tool {
	return mcp.Tool{
		Name:        "vim_help",
		Description: "Resolve Neovim help queries (e.g. ^N, :cd, wildmenu, *) to help tags and documentation URLs",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"tags": map[string]interface{}{
					"type":        "array",
					"description": "Help queries to resolve, one per item",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Whitespace-separated help queries, as typed after :help",
				},
			},
		},
	}
}

// vimHelpCandidatesTool returns the tool definition for vim_help_candidates
func vimHelpCandidatesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "vim_help_candidates",
		Description: "List the scored candidate tags for a single help query, best first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "A single help query",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of candidates to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
			Required: []string{"query"},
		},
	}
}

// vimTagLookupTool returns the tool definition for vim_tag_lookup
func vimTagLookupTool() mcp.Tool {
	return mcp.Tool{
		Name:        "vim_tag_lookup",
		Description: "Look up a help tag by its exact name, without pattern matching",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Exact tag name (e.g. CTRL-N, 'wildmenu')",
				},
			},
			Required: []string{"name"},
		},
	}
}

// vimHelpStatsTool returns the tool definition for vim_help_stats
func vimHelpStatsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "vim_help_stats",
		Description: "Report tag database size and lookup history statistics",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Number of top tags and top misses to include (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}
