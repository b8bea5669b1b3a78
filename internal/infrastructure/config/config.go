package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Browser   BrowserConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Gzip bool   `envconfig:"SERVER_GZIP" default:"true"`

	// CORSOrigins lists the front-end origins allowed to call the API and
	// open streams. "*" allows any.
	CORSOrigins []string `envconfig:"SERVER_CORS_ORIGINS" default:"*"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	File        string `envconfig:"LOG_FILE"`
	MaxSizeMB   int    `envconfig:"LOG_MAX_SIZE_MB" default:"50"`
	MaxBackups  int    `envconfig:"LOG_MAX_BACKUPS" default:"3"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`

	// GlobalRPS caps the whole server across clients; 0 disables the cap.
	// GlobalBurst defaults to GlobalRPS.
	GlobalRPS   int `envconfig:"RATE_LIMIT_GLOBAL_RPS" default:"0"`
	GlobalBurst int `envconfig:"RATE_LIMIT_GLOBAL_BURST" default:"0"`
}

// BrowserConfig holds browser session configuration.
type BrowserConfig struct {
	SearchURL       string        `envconfig:"BROWSER_SEARCH_URL" default:"https://www.google.com/search"`
	NewTabTitle     string        `envconfig:"BROWSER_NEW_TAB_TITLE" default:"New Tab"`
	HistoryLimit    int           `envconfig:"BROWSER_HISTORY_LIMIT" default:"0"`
	LoadDelay       time.Duration `envconfig:"BROWSER_LOAD_DELAY" default:"1s"`
	BlockedHosts    []string      `envconfig:"BROWSER_BLOCKED_HOSTS"`
	CatalogPath     string        `envconfig:"BROWSER_CATALOG_PATH"`
	Seed            bool          `envconfig:"BROWSER_SEED" default:"true"`
	SuggestionLimit int           `envconfig:"BROWSER_SUGGESTION_LIMIT" default:"5"`
	RemoteViewport  bool          `envconfig:"BROWSER_REMOTE_VIEWPORT" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8000",
			Host:        "0.0.0.0",
			Gzip:        true,
			CORSOrigins: []string{"*"},
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
			MaxSizeMB:   50,
			MaxBackups:  3,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Browser: BrowserConfig{
			SearchURL:       "https://www.google.com/search",
			NewTabTitle:     "New Tab",
			LoadDelay:       time.Second,
			Seed:            true,
			SuggestionLimit: 5,
		},
	}
}
