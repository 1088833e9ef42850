// Package health probes the catalog APIs to tell whether searches can succeed.
package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/vadimtrunov/PickSomething/internal/metadata/googlebooks"
	"github.com/vadimtrunov/PickSomething/internal/metadata/tmdb"
)

const probeTimeout = 5 * time.Second

// Probe names one endpoint to check.
type Probe struct {
	Name       string
	URL        string
	MissingKey bool // no credential configured; never reported as authorized
}

// Result holds the outcome of a single probe.
type Result struct {
	Name       string        // catalog name (e.g. "tmdb")
	Endpoint   string        // URL probed, without query
	Reachable  bool          // the API answered with status < 500
	Authorized bool          // reachable and the credentials were accepted
	Status     int           // HTTP status code, 0 if unreachable
	Error      string        // error message if not authorized
	Latency    time.Duration // round-trip time of the probe
}

// Checker sends HTTP probes to the catalog APIs.
type Checker struct {
	logger *slog.Logger
	client *http.Client
}

// NewChecker creates a Checker. A nil client gets a 5 second timeout.
func NewChecker(client *http.Client, logger *slog.Logger) *Checker {
	if client == nil {
		client = &http.Client{Timeout: probeTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{logger: logger, client: client}
}

// CatalogProbes builds the probes for TMDb and Google Books. Empty base
// URLs mean the public endpoints. An empty key marks the probe MissingKey:
// Google Books answers keyless requests, so the status alone cannot tell.
func CatalogProbes(tmdbBase, tmdbKey, booksBase, booksKey string) []Probe {
	if tmdbBase == "" {
		tmdbBase = tmdb.DefaultBaseURL
	}
	if booksBase == "" {
		booksBase = googlebooks.DefaultBaseURL
	}

	tq := url.Values{}
	tq.Set("api_key", tmdbKey)

	bq := url.Values{}
	bq.Set("q", "picksomething")
	bq.Set("maxResults", "1")
	if booksKey != "" {
		bq.Set("key", booksKey)
	}

	return []Probe{
		{Name: "tmdb", URL: tmdbBase + "/configuration?" + tq.Encode(), MissingKey: tmdbKey == ""},
		{Name: "google_books", URL: booksBase + "/volumes?" + bq.Encode(), MissingKey: booksKey == ""},
	}
}

// Check runs one probe.
func (c *Checker) Check(ctx context.Context, p Probe) Result {
	result := Result{Name: p.Name, Endpoint: stripQuery(p.URL)}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, http.NoBody)
	if err != nil {
		result.Error = fmt.Errorf("create request: %w", err).Error()
		result.Latency = time.Since(start)
		return result
	}

	resp, err := c.client.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		result.Error = redact(err, result.Endpoint)
		return result
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	result.Reachable = resp.StatusCode < 500
	result.Authorized = resp.StatusCode < 400

	switch {
	case !result.Reachable:
		result.Error = fmt.Sprintf("unhealthy status: %d", resp.StatusCode)
	case !result.Authorized:
		result.Error = fmt.Sprintf("request rejected with status %d, check the API key", resp.StatusCode)
	case p.MissingKey:
		result.Authorized = false
		result.Error = "API key not configured"
	}
	return result
}

// CheckAll runs every probe concurrently and returns the results in input order.
func (c *Checker) CheckAll(ctx context.Context, probes []Probe) []Result {
	results := make([]Result, len(probes))

	var wg sync.WaitGroup
	for i, p := range probes {
		wg.Go(func() {
			results[i] = c.Check(ctx, p)

			r := results[i]
			c.logger.Info("health probe",
				slog.String("catalog", r.Name),
				slog.Bool("reachable", r.Reachable),
				slog.Bool("authorized", r.Authorized),
				slog.Int("status", r.Status),
				slog.Duration("latency", r.Latency),
				slog.String("error", r.Error),
			)
		})
	}
	wg.Wait()
	return results
}

// stripQuery drops the query so API keys never reach logs or output.
func stripQuery(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<redacted>"
	}
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

// redact rewrites transport errors, which embed the full request URL.
func redact(err error, safe string) string {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Sprintf("%s %s: %v", uerr.Op, safe, uerr.Err)
	}
	return err.Error()
}
