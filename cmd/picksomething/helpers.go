package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vadimtrunov/PickSomething/internal/config"
	"github.com/vadimtrunov/PickSomething/internal/httpclient"
	"github.com/vadimtrunov/PickSomething/internal/metadata/cache"
	"github.com/vadimtrunov/PickSomething/internal/metadata/googlebooks"
	"github.com/vadimtrunov/PickSomething/internal/metadata/tmdb"
	"github.com/vadimtrunov/PickSomething/internal/search"
)

// Lipgloss styles used across commands.
var (
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
)

// resolveConfigPath returns the file to load. The default path is optional:
// when it was not set explicitly and does not exist, configuration comes
// from the environment alone.
func resolveConfigPath(cmd *cobra.Command, path string) string {
	if path != config.DefaultPath {
		return path
	}
	if f := cmd.Flag("config"); f != nil && f.Changed {
		return path
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}

// loadConfig loads and validates the configuration file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(resolveConfigPath(cmd, configPath))
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// interactiveLogger sends logs to app.log_file, or nowhere, so they do not
// corrupt the terminal UI.
func interactiveLogger(cfg *config.Config) (*slog.Logger, func() error, error) {
	w, closeFn, err := config.OpenLogFile(cfg.App.LogFile)
	if err != nil {
		return nil, nil, err
	}
	return config.SetupLogger(cfg.App.LogLevel, w), closeFn, nil
}

// warnMissingCredentials logs each API key that is not configured.
func warnMissingCredentials(cfg *config.Config, logger *slog.Logger) {
	for _, key := range cfg.MissingCredentials() {
		logger.Warn("credential not configured, searches will return no results",
			slog.String("key", key),
		)
	}
}

// services holds the search client and the resources behind it.
type services struct {
	search *search.Client
	closer io.Closer
}

// Close releases the cache connection, if any.
func (s *services) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// initServices creates the HTTP client, cache and catalog clients and
// returns the search client that ties them together.
func initServices(cfg *config.Config, logger *slog.Logger) *services {
	warnMissingCredentials(cfg, logger)

	httpCfg := httpclient.DefaultConfig()
	httpCfg.MaxAttempts = cfg.HTTP.MaxAttempts
	httpCfg.Timeout = cfg.HTTP.Timeout
	httpCfg.RequestsPerSecond = cfg.HTTP.RequestsPerSecond
	hc := httpclient.New(httpCfg, logger)

	svc := &services{}
	store := cache.New(cfg.Cache.TTL, cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, logger)
	if c, ok := store.(io.Closer); ok {
		svc.closer = c
	}
	if store != nil {
		logger.Info("search cache enabled",
			slog.Duration("ttl", cfg.Cache.TTL),
			slog.Bool("redis", cfg.Cache.RedisAddr != ""),
		)
	}

	if cfg.TMDb.BaseURL != "" {
		logger.Info("using custom TMDb endpoint", slog.String("url", sanitizeURL(cfg.TMDb.BaseURL)))
	}
	if cfg.GoogleBooks.BaseURL != "" {
		logger.Info("using custom Google Books endpoint", slog.String("url", sanitizeURL(cfg.GoogleBooks.BaseURL)))
	}

	movies := tmdb.New(tmdb.Config{APIKey: cfg.TMDb.APIKey, BaseURL: cfg.TMDb.BaseURL}, hc, store, logger)
	books := googlebooks.New(googlebooks.Config{APIKey: cfg.GoogleBooks.APIKey, BaseURL: cfg.GoogleBooks.BaseURL}, hc, store, logger)
	svc.search = search.New(movies, books, logger)
	return svc
}

// sanitizeURL strips credentials, query params, and fragment from a URL for safe logging.
func sanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || u.Scheme == "" {
		return "<redacted>"
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
