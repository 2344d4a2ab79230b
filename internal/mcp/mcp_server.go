// Package mcp exposes the analyses as Model Context Protocol tools.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/drpaneas/gitinsight/internal/model"
)

// Analyzer runs the analyses behind the tools. *analysis.Analyzer implements it.
type Analyzer interface {
	AnalyzeRepository(ctx context.Context, rawURL string) (*model.AnalysisResult, error)
	AnalyzeProfile(ctx context.Context, rawURL string) (*model.ProfileAnalysisResult, error)
}

// NewMCPServer configures the gitinsight MCP server without starting it.
func NewMCPServer(a Analyzer, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"gitinsight",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{analyzer: a}

	s.AddTool(mcp.NewTool("analyze_repository",
		mcp.WithDescription("Analyze a GitHub repository: tech stack, structure summary, quality rating and notable code elements."),
		mcp.WithString("url", mcp.Description("Repository URL, e.g. https://github.com/owner/repo."), mcp.Required()),
		mcp.WithBoolean("markdown", mcp.Description("Return the code elements as Markdown instead of the full JSON result.")),
	), h.handleAnalyzeRepository)

	s.AddTool(mcp.NewTool("analyze_profile",
		mcp.WithDescription("Analyze a GitHub developer profile: summary, expertise, health score, badges and contribution calendar."),
		mcp.WithString("url", mcp.Description("Profile URL, e.g. https://github.com/login."), mcp.Required()),
	), h.handleAnalyzeProfile)

	return s
}

// StartMCPServer serves the tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, a Analyzer, version string) error {
	return server.ServeStdio(NewMCPServer(a, version))
}
