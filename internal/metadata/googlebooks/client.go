// Package googlebooks is a minimal Google Books API v1 volumes search client.
package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vadimtrunov/PickSomething/internal/httpclient"
	"github.com/vadimtrunov/PickSomething/internal/metadata/cache"
)

const (
	// DefaultBaseURL is the public Google Books API endpoint.
	DefaultBaseURL = "https://www.googleapis.com/books/v1"
	maxErrorBody   = 512

	// MaxResults is the largest page the volumes endpoint serves.
	MaxResults = 40
)

// Config holds Google Books credentials and endpoint.
type Config struct {
	APIKey  string
	BaseURL string // empty = public API
}

// Client searches Google Books volumes.
type Client struct {
	baseURL string
	apiKey  string
	http    *httpclient.Client
	cache   cache.Store
	logger  *slog.Logger
}

// New creates a Google Books client. httpClient and store may be nil.
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

// NewForTest creates a client with a custom base URL for testing.
func NewForTest(baseURL string, logger *slog.Logger) *Client {
	return New(Config{APIKey: "test-key", BaseURL: baseURL}, nil, nil, logger)
}

// SearchVolumes runs a full-text volumes search. maxResults is clamped to
// 1..MaxResults. A response without an items list yields an empty slice.
func (c *Client) SearchVolumes(ctx context.Context, query string, maxResults int) ([]Volume, error) {
	maxResults = min(max(maxResults, 1), MaxResults)

	cacheKey := fmt.Sprintf("books:%d:%s", maxResults, query)
	var volumes []Volume
	if cache.Lookup(ctx, c.cache, cacheKey, &volumes) {
		return volumes, nil
	}

	u, err := url.Parse(c.baseURL + "/volumes")
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("key", c.apiKey)
	q.Set("maxResults", strconv.Itoa(maxResults))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("google books request", slog.Int("max_results", maxResults))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search volumes: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("google books API error %d: %s", resp.StatusCode, string(body))
	}

	var vr volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return nil, fmt.Errorf("decode volumes: %w", err)
	}
	if vr.Items == nil {
		vr.Items = []Volume{}
	}

	cache.Save(ctx, c.cache, cacheKey, vr.Items)
	return vr.Items, nil
}
