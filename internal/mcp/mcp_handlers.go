package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/drpaneas/gitinsight/internal/apperr"
	"github.com/drpaneas/gitinsight/internal/export"
)

type toolHandler struct {
	analyzer Analyzer
}

func (h *toolHandler) handleAnalyzeRepository(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	res, err := h.analyzer.AnalyzeRepository(ctx, url)
	if err != nil {
		return toolError(err), nil
	}
	if request.GetBool("markdown", false) {
		md, err := export.ItemsMarkdown(res.Items)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(md), nil
	}
	return jsonResult(res)
}

func (h *toolHandler) handleAnalyzeProfile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	url := request.GetString("url", "")
	if url == "" {
		return mcp.NewToolResultError("url is required"), nil
	}
	res, err := h.analyzer.AnalyzeProfile(ctx, url)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(res)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError reports an analysis failure as a tool result so the agent can
// read it, instead of a protocol error.
func toolError(err error) *mcp.CallToolResult {
	kind := apperr.KindOf(err)
	if kind == "" {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s (%s)", apperr.UserMessage(err), kind))
}
