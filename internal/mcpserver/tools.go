package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ppiankov/centauri/internal/model"
	"github.com/ppiankov/centauri/internal/pipeline"
)

// AnalyzeArticleTool handles the analyze_article MCP tool
type AnalyzeArticleTool struct {
	analyzer Analyzer
}

// NewAnalyzeArticleTool creates the analyze_article tool
func NewAnalyzeArticleTool(analyzer Analyzer) *AnalyzeArticleTool {
	return &AnalyzeArticleTool{analyzer: analyzer}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeArticleTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_article",
		mcp.WithDescription(
			"Score an article for SEO and AI indexing. "+
				"Returns the full JSON report: validated sentences, Level 2-4 scores, "+
				"final scores, recommendations and an input integrity block.",
		),
		mcp.WithString("article",
			mcp.Required(),
			mcp.Description("Article body as plain text, Markdown or HTML."),
		),
		mcp.WithString("primary_keyword",
			mcp.Description("Target search keyword. Without it keyword, intent and section scores are 0."),
		),
		mcp.WithString("secondary_keywords",
			mcp.Description("Comma-separated secondary keywords. Omit to derive them from competitor headings."),
		),
		mcp.WithString("meta_title",
			mcp.Description("Page title tag."),
		),
		mcp.WithString("meta_description",
			mcp.Description("Meta description."),
		),
		mcp.WithString("url",
			mcp.Description("Absolute http(s) URL of the page, used for slug keyword checks."),
		),
	)
}

// Handle processes the analyze_article tool call.
func (t *AnalyzeArticleTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := pipeline.Input{
		Article:           req.GetString("article", ""),
		PrimaryKeyword:    req.GetString("primary_keyword", ""),
		SecondaryKeywords: splitList(req.GetString("secondary_keywords", "")),
		MetaTitle:         req.GetString("meta_title", ""),
		MetaDescription:   req.GetString("meta_description", ""),
		URL:               req.GetString("url", ""),
	}
	return analyze(ctx, t.analyzer, in)
}

// AnalyzeURLTool handles the analyze_url MCP tool
type AnalyzeURLTool struct {
	analyzer Analyzer
}

// NewAnalyzeURLTool creates the analyze_url tool
func NewAnalyzeURLTool(analyzer Analyzer) *AnalyzeURLTool {
	return &AnalyzeURLTool{analyzer: analyzer}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeURLTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_url",
		mcp.WithDescription(
			"Fetch a published page (robots.txt aware) and score it like analyze_article. "+
				"Title and meta description are read from the page head.",
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute http(s) URL of the article."),
		),
		mcp.WithString("primary_keyword",
			mcp.Description("Target search keyword."),
		),
		mcp.WithString("secondary_keywords",
			mcp.Description("Comma-separated secondary keywords."),
		),
	)
}

// Handle processes the analyze_url tool call.
func (t *AnalyzeURLTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL := req.GetString("url", "")
	if !pipeline.ValidURL(rawURL) {
		return mcp.NewToolResultError("url must be an absolute http(s) URL"), nil
	}

	in, err := t.analyzer.LoadSource(ctx, rawURL)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading %s: %v", rawURL, err)), nil
	}
	if kw := req.GetString("primary_keyword", ""); kw != "" {
		in.PrimaryKeyword = kw
	}
	if secondary := splitList(req.GetString("secondary_keywords", "")); secondary != nil {
		in.SecondaryKeywords = secondary
	}
	return analyze(ctx, t.analyzer, in)
}

func analyze(ctx context.Context, analyzer Analyzer, in pipeline.Input) (*mcp.CallToolResult, error) {
	report, err := analyzer.Analyze(ctx, in)
	if err != nil {
		if errors.Is(err, pipeline.ErrArticleMissing) && report != nil {
			return mcp.NewToolResultError(fmt.Sprintf("%v\n\n%s", err, integrityJSON(report.InputIntegrity))), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding report: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func integrityJSON(ii model.InputIntegrity) string {
	data, err := json.MarshalIndent(map[string]model.InputIntegrity{"input_integrity": ii}, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// splitList parses a comma-separated list. An empty string means the list was not sent.
func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if out == nil {
		return []string{}
	}
	return out
}
