// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/vino9org/git-indexer/internal/contract"
)

// NewMCPServer initializes and configures the read-only index server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, qs contract.QueryStore, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Git Indexer Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		qs:      qs,
	}

	// --- 1. Tool: search_commits ---
	s.AddTool(mcp.NewTool("search_commits",
		mcp.WithDescription("Look up indexed commits by full commit hash, author email, or repository name. Results are ordered by lines changed."),
		mcp.WithString("term", mcp.Description("A 40 character commit hash, an author email, or a repository name."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleSearchCommits)

	// --- 2. Tool: index_status ---
	s.AddTool(mcp.NewTool("index_status",
		mcp.WithDescription("Report the index backend, schema version, table sizes and the last indexed repository."),
	), h.handleIndexStatus)

	return s
}

// StartMCPServer serves the index tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, qs contract.QueryStore, version string) error {
	s := NewMCPServer(baseCfg, qs, version)
	return server.ServeStdio(s)
}
