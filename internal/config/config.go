package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.yaml.in/yaml/v3"
)

// DefaultPath is the config file used when --config is not given.
const DefaultPath = "configs/picksomething.yaml"

// ErrNotFound is returned by Load when the config file does not exist.
var ErrNotFound = errors.New("config file not found")

// Config represents the main application configuration
type Config struct {
	// Metadata providers
	TMDb        TMDbConfig        `yaml:"tmdb"`
	GoogleBooks GoogleBooksConfig `yaml:"google_books"`

	// Outbound HTTP and caching
	HTTP  HTTPConfig  `yaml:"http"`
	Cache CacheConfig `yaml:"cache"`

	// Frontends
	Web      WebConfig       `yaml:"web"`
	Telegram *TelegramConfig `yaml:"telegram,omitempty"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// TMDbConfig holds TMDb API configuration
type TMDbConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// GoogleBooksConfig holds Google Books API configuration
type GoogleBooksConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// HTTPConfig tunes the outbound API client. The zero value sends every
// request once, without a timeout or a rate limit.
type HTTPConfig struct {
	Timeout           time.Duration `yaml:"timeout,omitempty"`
	MaxAttempts       int           `yaml:"max_attempts,omitempty"`
	RequestsPerSecond float64       `yaml:"requests_per_second,omitempty"`
}

// CacheConfig enables the search cache when TTL is positive.
// With RedisAddr set the cache is shared through Redis, otherwise it is in-process.
type CacheConfig struct {
	TTL           time.Duration `yaml:"ttl,omitempty"`
	RedisAddr     string        `yaml:"redis_addr,omitempty"`
	RedisPassword string        `yaml:"redis_password,omitempty"`
}

// WebConfig holds HTTP server configuration
type WebConfig struct {
	Port int `yaml:"port"`
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken       string  `yaml:"bot_token"`
	AllowedUserIDs []int64 `yaml:"allowed_user_ids,omitempty"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel string `yaml:"log_level"`          // "debug", "info", "warn", "error"
	LogFile  string `yaml:"log_file,omitempty"` // log destination for interactive commands
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none are
// given) into the environment. Variables that are already set win, and
// missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from a YAML file with environment variable overrides.
// An empty path skips the file and builds the configuration from defaults and
// the environment only.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := validateConfigPath(path); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// validateConfigPath checks that path names an existing regular file.
func validateConfigPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("config path %s is a directory", path)
	}
	return nil
}

// applyEnvOverrides overrides config values with environment variables
func (c *Config) applyEnvOverrides() {
	// Metadata providers. The VITE_* names are accepted so an existing
	// front-end .env file keeps working.
	if v := firstEnv("PICKSOMETHING_TMDB_API_KEY", "VITE_TMDB_API_KEY"); v != "" {
		c.TMDb.APIKey = v
	}
	if v := os.Getenv("PICKSOMETHING_TMDB_BASE_URL"); v != "" {
		c.TMDb.BaseURL = v
	}
	if v := firstEnv("PICKSOMETHING_GOOGLE_BOOKS_API_KEY", "VITE_GOOGLE_BOOKS_API_KEY"); v != "" {
		c.GoogleBooks.APIKey = v
	}
	if v := os.Getenv("PICKSOMETHING_GOOGLE_BOOKS_BASE_URL"); v != "" {
		c.GoogleBooks.BaseURL = v
	}

	// HTTP
	if v := os.Getenv("PICKSOMETHING_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTP.Timeout = d
		} else {
			c.HTTP.Timeout = -1 // rejected by Validate
		}
	}
	if v := os.Getenv("PICKSOMETHING_HTTP_MAX_ATTEMPTS"); v != "" {
		c.HTTP.MaxAttempts = atoiOr(v, -1)
	}
	if v := os.Getenv("PICKSOMETHING_HTTP_REQUESTS_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.HTTP.RequestsPerSecond = f
		} else {
			c.HTTP.RequestsPerSecond = -1
		}
	}

	// Cache
	if v := os.Getenv("PICKSOMETHING_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = d
		} else {
			c.Cache.TTL = -1
		}
	}
	if v := os.Getenv("PICKSOMETHING_REDIS_ADDR"); v != "" {
		c.Cache.RedisAddr = v
	}
	if v := os.Getenv("PICKSOMETHING_REDIS_PASSWORD"); v != "" {
		c.Cache.RedisPassword = v
	}

	// Web
	if v := os.Getenv("PICKSOMETHING_WEB_PORT"); v != "" {
		c.Web.Port = atoiOr(v, -1)
	}

	// Telegram
	c.Telegram = applyTelegramEnv(c.Telegram)

	// App
	if v := os.Getenv("PICKSOMETHING_LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv("PICKSOMETHING_LOG_FILE"); v != "" {
		c.App.LogFile = v
	}
}

// applyTelegramEnv creates or updates the Telegram section from the environment.
func applyTelegramEnv(tc *TelegramConfig) *TelegramConfig {
	token := os.Getenv("PICKSOMETHING_TELEGRAM_BOT_TOKEN")
	ids := os.Getenv("PICKSOMETHING_TELEGRAM_ALLOWED_USER_IDS")
	if token == "" && ids == "" {
		return tc
	}
	if tc == nil {
		tc = &TelegramConfig{}
	}
	if token != "" {
		tc.BotToken = token
	}
	if ids != "" {
		tc.AllowedUserIDs = parseIDs(ids)
	}
	return tc
}

// parseIDs parses a comma-separated list of user IDs, skipping invalid entries.
func parseIDs(s string) []int64 {
	var ids []int64
	for part := range strings.SplitSeq(s, ",") {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func atoiOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// setDefaults fills zero values with their defaults.
func (c *Config) setDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Web.Port == 0 {
		c.Web.Port = 8080
	}
	if c.HTTP.MaxAttempts == 0 {
		c.HTTP.MaxAttempts = 1
	}
}

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate validates the configuration. Missing API keys are not an error:
// the affected searches fail at request time and return no results.
func (c *Config) Validate() error {
	if err := c.validateProviders(); err != nil {
		return err
	}

	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	if c.HTTP.MaxAttempts < 1 || c.HTTP.MaxAttempts > 10 {
		return fmt.Errorf("http.max_attempts must be between 1 and 10")
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return fmt.Errorf("http.requests_per_second must not be negative")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port must be between 1 and 65535")
	}

	if c.Telegram != nil && c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}

	level := strings.ToLower(c.App.LogLevel)
	valid := false
	for _, l := range validLogLevels {
		if level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("app.log_level must be one of %s", strings.Join(validLogLevels, ", "))
	}

	return nil
}

func (c *Config) validateProviders() error {
	if c.TMDb.BaseURL != "" {
		if err := validateURL(c.TMDb.BaseURL, "tmdb.base_url"); err != nil {
			return err
		}
	}
	if c.GoogleBooks.BaseURL != "" {
		if err := validateURL(c.GoogleBooks.BaseURL, "google_books.base_url"); err != nil {
			return err
		}
	}
	return nil
}

// validateURL checks that raw is an absolute http(s) URL with a host.
func validateURL(raw, field string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing host", field)
	}
	return nil
}

// MissingCredentials lists the API keys that are not configured.
func (c *Config) MissingCredentials() []string {
	var missing []string
	if c.TMDb.APIKey == "" {
		missing = append(missing, "tmdb.api_key")
	}
	if c.GoogleBooks.APIKey == "" {
		missing = append(missing, "google_books.api_key")
	}
	return missing
}
