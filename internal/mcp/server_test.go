package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/vadimtrunov/PickSomething/internal/card"
	"github.com/vadimtrunov/PickSomething/internal/core"
)

// mockSearcher implements session.Searcher for testing.
type mockSearcher struct {
	results map[core.Category][]core.Recommendation
	err     error
}

func (m *mockSearcher) Search(_ context.Context, c core.Category, _ string) ([]core.Recommendation, error) {
	return m.results[c], m.err
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func callTool(t *testing.T, srv *Server, toolName string, args map[string]any) *mcpsdk.CallToolResult {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcpsdk.NewInMemoryTransports()

	_, err := srv.MCPServer().Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { _ = session.Close() })

	result, err := session.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      toolName,
		Arguments: args,
	})
	if err != nil {
		t.Fatalf("call tool %s: %v", toolName, err)
	}
	return result
}

func resultText(t *testing.T, result *mcpsdk.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(result.Content))
	}
	text, ok := result.Content[0].(*mcpsdk.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", result.Content[0])
	}
	return text.Text
}

var inception = core.Movie{
	ID:          27205,
	Title:       "Inception",
	Overview:    "A thief who steals corporate secrets.",
	PosterPath:  "/p.jpg",
	ReleaseDate: "2010-07-16",
	VoteAverage: 8.4,
}

func TestRecommend(t *testing.T) {
	t.Parallel()
	srv := NewServer(&mockSearcher{results: map[core.Category][]core.Recommendation{
		core.CategoryMovie: {inception},
	}}, "test", discardLogger)

	result := callTool(t, srv, "recommend", map[string]any{"keyword": "dream", "category": "movie"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}

	var got card.Card
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Title != "Inception" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Primary.URL != "https://www.themoviedb.org/movie/27205" {
		t.Errorf("primary = %q", got.Primary.URL)
	}
	if got.ImageURL != "https://image.tmdb.org/t/p/w500/p.jpg" {
		t.Errorf("image = %q", got.ImageURL)
	}
}

func TestRecommend_Notices(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		searcher *mockSearcher
		args     map[string]any
		want     string
	}{
		{
			name:     "empty keyword",
			searcher: &mockSearcher{},
			args:     map[string]any{"keyword": "  ", "category": "movie"},
			want:     "Enter a keyword first",
		},
		{
			name:     "no results",
			searcher: &mockSearcher{},
			args:     map[string]any{"keyword": "zzz", "category": "book"},
			want:     "couldn't find any book",
		},
		{
			name:     "search error",
			searcher: &mockSearcher{err: errors.New("boom")},
			args:     map[string]any{"keyword": "zzz", "category": "tv"},
			want:     "Failed to fetch recommendations",
		},
		{
			name:     "unknown category",
			searcher: &mockSearcher{},
			args:     map[string]any{"keyword": "zzz", "category": "music"},
			want:     "unknown category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := NewServer(tt.searcher, "test", discardLogger)
			result := callTool(t, srv, "recommend", tt.args)
			if !result.IsError {
				t.Fatal("expected error result")
			}
			if text := resultText(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("text = %q, want it to contain %q", text, tt.want)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()
	show := core.TvShow{ID: 1, Name: "Dark", FirstAirDate: "2017-12-01"}
	srv := NewServer(&mockSearcher{results: map[core.Category][]core.Recommendation{
		core.CategoryTV: {show, show},
	}}, "test", discardLogger)

	result := callTool(t, srv, "search", map[string]any{"keyword": "time", "category": "TV"})
	if result.IsError {
		t.Fatalf("expected success, got error: %s", resultText(t, result))
	}

	var got struct {
		Category string            `json:"category"`
		Count    int               `json:"count"`
		Results  []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Category != "tv" || got.Count != 2 || len(got.Results) != 2 {
		t.Errorf("unexpected result: %+v", got)
	}
	rec, err := core.DecodeItem(got.Results[0])
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if rec.Category() != core.CategoryTV {
		t.Errorf("category = %q", rec.Category())
	}
}

func TestSearch_EmptyList(t *testing.T) {
	t.Parallel()
	srv := NewServer(&mockSearcher{}, "test", discardLogger)

	result := callTool(t, srv, "search", map[string]any{"keyword": "zzz", "category": "book"})
	if result.IsError {
		t.Fatal("expected success for empty results")
	}
	if text := resultText(t, result); !strings.Contains(text, `"results":[]`) {
		t.Errorf("text = %s", text)
	}
}

func TestRenderCard(t *testing.T) {
	t.Parallel()
	srv := NewServer(&mockSearcher{}, "test", discardLogger)

	tests := []struct {
		name      string
		item      map[string]any
		wantErr   bool
		wantTitle string
		wantCat   core.Category
	}{
		{
			name:      "movie",
			item:      map[string]any{"id": 1, "title": "Alien", "release_date": "1979-05-25", "vote_average": 8.1},
			wantTitle: "Alien",
			wantCat:   core.CategoryMovie,
		},
		{
			name:      "show",
			item:      map[string]any{"id": 2, "name": "Dark", "first_air_date": "2017-12-01"},
			wantTitle: "Dark",
			wantCat:   core.CategoryTV,
		},
		{
			name: "book",
			item: map[string]any{
				"id": "x", "title": "Dune", "authors": []any{"Frank Herbert"},
				"infoLink": "https://books.google.com/x", "publishedDate": "1965",
			},
			wantTitle: "Dune",
			wantCat:   core.CategoryBook,
		},
		{
			name:    "unknown shape",
			item:    map[string]any{"foo": "bar"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := callTool(t, srv, "render_card", map[string]any{"item": tt.item})
			if result.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, text %q", result.IsError, resultText(t, result))
			}
			if tt.wantErr {
				return
			}
			var got card.Card
			if err := json.Unmarshal([]byte(resultText(t, result)), &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Title != tt.wantTitle || got.Category != tt.wantCat {
				t.Errorf("got %q/%q", got.Title, got.Category)
			}
		})
	}
}

func TestRenderCard_MissingItem(t *testing.T) {
	t.Parallel()
	srv := NewServer(&mockSearcher{}, "test", discardLogger)

	result := callTool(t, srv, "render_card", map[string]any{})
	if !result.IsError {
		t.Fatal("expected error for missing item")
	}
}
