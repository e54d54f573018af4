// Package mcpserver exposes the analysis pipeline as MCP tools over stdio.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/pipeline"
)

// Analyzer is the part of the pipeline the tools call
type Analyzer interface {
	Analyze(ctx context.Context, in pipeline.Input) (*model.Report, error)
	LoadSource(ctx context.Context, source string) (pipeline.Input, error)
}

// New creates the MCP server with every tool registered
func New(analyzer Analyzer, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"centauri",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Centauri scores articles for SEO and AI indexing. "+
			"Call analyze_article with the article body and, when known, the primary keyword, "+
			"meta title, meta description and URL. Missing optional fields only skip the checks that need them."),
	)

	article := NewAnalyzeArticleTool(analyzer)
	s.AddTool(article.Definition(), article.Handle)

	page := NewAnalyzeURLTool(analyzer)
	s.AddTool(page.Definition(), page.Handle)

	return s
}

// ServeStdio blocks serving MCP over stdin/stdout
func ServeStdio(analyzer Analyzer, version string) error {
	return server.ServeStdio(New(analyzer, version))
}
