package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/eduassist/internal/core/domain"
	"github.com/kirillkom/eduassist/internal/core/ports"
	"github.com/kirillkom/eduassist/internal/core/quizgen"
)

const (
	ServerName = "EduAssist MCP"
	Version    = "1.0.0"
)

type SummarizeArgs struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

type QuizArgs struct {
	Text string `json:"text"`
	Num  *int   `json:"num"`
}

type AnalyzeArgs struct {
	URL      string `json:"url"`
	Markdown bool   `json:"markdown"`
}

// NewServer exposes the summarizer, quiz builder and page analyzer as MCP tools.
func NewServer(analyzer ports.ContentAnalyzer, summarizer ports.TextSummarizer, quiz ports.QuizBuilder) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s.AddTool(mcp.NewTool("summarize",
		mcp.WithDescription("Extractive summary of a text: the most representative sentences in original order"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to summarize")),
		mcp.WithString("mode",
			mcp.Description("summary keeps the top five sentences, full keeps every sentence"),
			mcp.Enum(string(domain.ModeSummary), string(domain.ModeFull), string(domain.ModeAuto)),
		),
	), mcp.NewTypedToolHandler(summarizeHandler(summarizer)))

	s.AddTool(mcp.NewTool("generate_quiz",
		mcp.WithDescription("Fill-in-the-blank multiple-choice quiz built from the sentences of a text"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Source text")),
		mcp.WithNumber("num", mcp.Description("Maximum number of questions (default 4)")),
	), mcp.NewTypedToolHandler(quizHandler(quiz)))

	if analyzer != nil {
		s.AddTool(mcp.NewTool("analyze_url",
			mcp.WithDescription("Fetch a web page or PDF and return its title and readable text"),
			mcp.WithString("url", mcp.Required(), mcp.Description("http or https URL")),
			mcp.WithBoolean("markdown", mcp.Description("Also return the page body as Markdown")),
		), mcp.NewTypedToolHandler(analyzeHandler(analyzer)))
	}
	return s
}

func summarizeHandler(summarizer ports.TextSummarizer) func(context.Context, mcp.CallToolRequest, SummarizeArgs) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args SummarizeArgs) (*mcp.CallToolResult, error) {
		if strings.TrimSpace(args.Text) == "" {
			return mcp.NewToolResultError("text is required"), nil
		}
		summary, err := summarizer.Summarize(ctx, args.Text, domain.ParseSummaryMode(args.Mode))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to summarize: %v", err)), nil
		}
		return mcp.NewToolResultText(summary.Text), nil
	}
}

func quizHandler(quiz ports.QuizBuilder) func(context.Context, mcp.CallToolRequest, QuizArgs) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args QuizArgs) (*mcp.CallToolResult, error) {
		if strings.TrimSpace(args.Text) == "" {
			return mcp.NewToolResultError("text is required"), nil
		}
		num := quizgen.DefaultItems
		if args.Num != nil {
			num = *args.Num
		}
		result, err := quiz.Build(ctx, args.Text, num)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to build quiz: %v", err)), nil
		}
		return jsonResult(result)
	}
}

func analyzeHandler(analyzer ports.ContentAnalyzer) func(context.Context, mcp.CallToolRequest, AnalyzeArgs) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, _ mcp.CallToolRequest, args AnalyzeArgs) (*mcp.CallToolResult, error) {
		if strings.TrimSpace(args.URL) == "" {
			return mcp.NewToolResultError("url is required"), nil
		}
		page, err := analyzer.Analyze(ctx, args.URL, domain.FetchOptions{Markdown: args.Markdown})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to analyze url: %v", err)), nil
		}
		return jsonResult(page)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}
