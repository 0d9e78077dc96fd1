package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/vino9org/git-indexer/core"
	"github.com/vino9org/git-indexer/internal/contract"
	"github.com/vino9org/git-indexer/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	qs      contract.QueryStore
}

// searchResponse is the JSON body of a search_commits result.
type searchResponse struct {
	Term    string                `json:"term"`
	Kind    schema.SearchKind     `json:"kind"`
	Count   int                   `json:"count"`
	Commits []schema.CommitRecord `json:"commits"`
}

func (h *toolHandler) handleSearchCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	term := strings.TrimSpace(request.GetString("term", ""))
	if term == "" {
		return mcp.NewToolResultError("term is required"), nil
	}
	limit := h.baseCfg.Limit
	if l := request.GetInt("limit", 0); l > 0 {
		limit = l
	}
	if limit > contract.MaxResultLimit {
		return mcp.NewToolResultError(fmt.Sprintf("limit must be between 1 and %d", contract.MaxResultLimit)), nil
	}

	records, kind, err := core.SearchCommits(ctx, h.qs, term, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if records == nil {
		records = []schema.CommitRecord{}
	}

	jsonData, _ := json.MarshalIndent(searchResponse{Term: term, Kind: kind, Count: len(records), Commits: records}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleIndexStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := h.qs.GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("status failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(status, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
