// Package mcp implements the Model Context Protocol (MCP) server for vimhelp.
//
// The MCP server exposes four tools to chat bots and editors:
//   - vim_help: Resolve help queries to tags and documentation URLs
//   - vim_help_candidates: Show the ranked candidates for one query
//   - vim_tag_lookup: Find a tag by its exact name
//   - vim_help_stats: Tag database size and lookup history statistics
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport. The server reads
// requests from stdin and writes responses to stdout; logs go to stderr.
//
// # Basic Usage
//
//	vimhelp serve
//
// # Tool: vim_help
//
//	Request:
//	{
//	  "name": "vim_help",
//	  "arguments": {"query": "^N wildmenu nonexistent_xyz"}
//	}
//
//	Response:
//	{
//	  "found": [
//	    {"query": "^N", "name": "CTRL-N", "file": "motion.txt",
//	     "url": "https://neovim.io/doc/user/motion.html#CTRL-N", "score": 506, "kind": "exact"},
//	    {"query": "wildmenu", "name": "'wildmenu'", "file": "options.txt",
//	     "url": "https://neovim.io/doc/user/options.html#'wildmenu'", "score": 810, "kind": "exact"}
//	  ],
//	  "not_found": ["nonexistent_xyz"],
//	  "duration_ms": 3
//	}
//
// Queries may also be passed as a "tags" array. Duplicate queries are
// resolved once, and results follow sorted query order.
//
// # Tool: vim_help_candidates
//
//	Request:
//	{
//	  "name": "vim_help_candidates",
//	  "arguments": {"query": "cd", "limit": 5}
//	}
//
// The response lists every candidate with its score, match kind and match
// position, lowest score first. "selected" is the tag vim_help would return.
//
// # Error Handling
//
// Invalid arguments are returned as MCPError values carrying JSON-RPC style
// codes (-32602 invalid params, -32004 empty query, -32005 query that cannot
// be turned into search patterns). A query with no matching tag is not an
// error; it is listed under "not_found".
package mcp
