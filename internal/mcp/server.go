// Package mcp exposes recommendations as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/PickSomething/internal/card"
	"github.com/vadimtrunov/PickSomething/internal/core"
	"github.com/vadimtrunov/PickSomething/internal/session"
)

// Server wraps an MCP SDK server with PickSomething tool handlers.
type Server struct {
	server   *mcpsdk.Server
	searcher session.Searcher
	logger   *slog.Logger
}

// NewServer creates an MCP server with all tools registered.
func NewServer(searcher session.Searcher, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    "picksomething",
			Version: version,
		},
		&mcpsdk.ServerOptions{Logger: logger},
	)

	srv := &Server{server: s, searcher: searcher, logger: logger}
	srv.registerTools()
	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcpsdk.StdioTransport{})
}

// MCPServer returns the underlying MCP SDK server (for testing).
func (s *Server) MCPServer() *mcpsdk.Server {
	return s.server
}

func (s *Server) registerTools() {
	s.server.AddTool(recommendTool(), s.handleRecommend)
	s.server.AddTool(searchTool(), s.handleSearch)
	s.server.AddTool(renderCardTool(), s.handleRenderCard)
}

func recommendTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name: "recommend",
		Description: "Pick one random movie, TV show or book matching a keyword. " +
			"Returns a card with title, details, description, image and links.",
		InputSchema: keywordCategorySchema(),
	}
}

func searchTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name:        "search",
		Description: "List every movie, TV show or book matching a keyword, in the order the catalog returned them.",
		InputSchema: keywordCategorySchema(),
	}
}

func renderCardTool() *mcpsdk.Tool {
	return &mcpsdk.Tool{
		Name: "render_card",
		Description: "Render a recommendation card for a single item. The item is classified by its fields: " +
			"title+release_date is a movie, name+first_air_date is a TV show, authors+infoLink is a book.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"item": map[string]any{
					"type":        "object",
					"description": "A movie, TV show or book object as returned by the search tool",
				},
			},
			"required": []any{"item"},
		},
	}
}

func keywordCategorySchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"keyword": map[string]any{
				"type":        "string",
				"description": "Free-text search keyword, e.g. sci-fi or thriller",
			},
			"category": map[string]any{
				"type":        "string",
				"enum":        []any{"movie", "tv", "book"},
				"description": "What to look for",
			},
		},
		"required": []any{"keyword", "category"},
	}
}

type queryArgs struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
}

func parseQuery(raw json.RawMessage) (string, core.Category, error) {
	var args queryArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return "", "", fmt.Errorf("invalid arguments: %w", err)
	}
	cat, err := core.ParseCategory(args.Category)
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(args.Keyword), cat, nil
}

func (s *Server) handleRecommend(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	keyword, cat, err := parseQuery(req.Params.Arguments)
	if err != nil {
		return toolError(err.Error()), nil
	}

	sess := session.New(s.searcher, s.logger)
	sess.SetKeyword(keyword)
	out := sess.Select(ctx, cat)
	if out.Notice != nil {
		return toolError(out.Notice.Title + ": " + out.Notice.Description), nil
	}

	c, err := card.Build(out.Recommendation)
	if err != nil {
		return toolError(fmt.Sprintf("build card: %v", err)), nil
	}
	return toolJSON(c)
}

func (s *Server) handleSearch(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	keyword, cat, err := parseQuery(req.Params.Arguments)
	if err != nil {
		return toolError(err.Error()), nil
	}
	if keyword == "" {
		return toolError(session.KeywordRequired().Description), nil
	}

	results, err := s.searcher.Search(ctx, cat, keyword)
	if err != nil {
		s.logger.Error("mcp search failed", slog.String("error", err.Error()))
		return toolError(session.SearchFailed().Description), nil
	}
	if results == nil {
		results = []core.Recommendation{}
	}
	return toolJSON(map[string]any{
		"category": cat,
		"count":    len(results),
		"results":  results,
	})
}

func (s *Server) handleRenderCard(_ context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
	var args struct {
		Item json.RawMessage `json:"item"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
		return toolError(fmt.Sprintf("invalid arguments: %v", err)), nil
	}
	if len(args.Item) == 0 || string(args.Item) == "null" {
		return toolError("render_card requires an 'item' object"), nil
	}

	rec, err := core.DecodeItem(args.Item)
	if errors.Is(err, core.ErrUnknownShape) {
		return toolError("item is not a movie, TV show or book"), nil
	}
	if err != nil {
		return toolError(err.Error()), nil
	}

	c, err := card.Build(rec)
	if err != nil {
		return toolError(fmt.Sprintf("build card: %v", err)), nil
	}
	return toolJSON(c)
}

// toolJSON marshals v to JSON and returns it as text content.
func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return toolError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

// toolError returns a tool result indicating an error.
func toolError(msg string) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: msg}},
		IsError: true,
	}
}
