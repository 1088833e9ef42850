package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/vadimtrunov/PickSomething/internal/httpclient"
	"github.com/vadimtrunov/PickSomething/internal/metadata/cache"
)

const (
	// DefaultBaseURL is the public TMDb API endpoint.
	DefaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/"
	maxErrorBody   = 512
)

// Config holds TMDb credentials and endpoint.
type Config struct {
	APIKey  string
	BaseURL string // empty = public API
}

// Client is a TMDb API v3 search client.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
	cache   cache.Store
	logger  *slog.Logger
}

// New creates a new TMDb client. httpClient and store may be nil.
func New(cfg Config, httpClient *httpclient.Client, store cache.Store, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = httpclient.New(httpclient.DefaultConfig(), logger)
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		http:    httpClient,
		cache:   store,
		logger:  logger,
	}
}

// NewForTest creates a TMDb client with a custom base URL for testing.
// Exported because it is used by cross-package tests.
func NewForTest(baseURL string, logger *slog.Logger) *Client {
	return New(Config{APIKey: "test-key", BaseURL: baseURL}, nil, nil, logger)
}

// SearchMovies searches movies by keyword with adult titles excluded.
func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	cacheKey := "tmdb:movie:" + query
	var movies []Movie
	if cache.Lookup(ctx, c.cache, cacheKey, &movies) {
		return movies, nil
	}

	var resp searchResponse[Movie]
	if err := c.get(ctx, "/search/movie", searchParams(query), &resp); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}

	cache.Save(ctx, c.cache, cacheKey, resp.Results)
	return resp.Results, nil
}

// SearchTV searches TV series by keyword with adult titles excluded.
func (c *Client) SearchTV(ctx context.Context, query string) ([]TVShow, error) {
	cacheKey := "tmdb:tv:" + query
	var shows []TVShow
	if cache.Lookup(ctx, c.cache, cacheKey, &shows) {
		return shows, nil
	}

	var resp searchResponse[TVShow]
	if err := c.get(ctx, "/search/tv", searchParams(query), &resp); err != nil {
		return nil, fmt.Errorf("search tv: %w", err)
	}

	cache.Save(ctx, c.cache, cacheKey, resp.Results)
	return resp.Results, nil
}

func searchParams(query string) url.Values {
	return url.Values{
		"query":         {query},
		"include_adult": {"false"},
	}
}

// PosterURL returns the full URL for a poster path, or "" when there is none.
func PosterURL(posterPath, size string) string {
	if posterPath == "" {
		return ""
	}
	return imageBaseURL + size + posterPath
}

// get performs an authenticated GET request to the TMDb API and decodes the JSON response.
func (c *Client) get(ctx context.Context, path string, params url.Values, result any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	q := u.Query()
	q.Set("api_key", c.apiKey)
	for k, vs := range params {
		for _, v := range vs {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("tmdb request", slog.String("path", path))

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("tmdb API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
