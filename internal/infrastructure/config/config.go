package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Preview   PreviewConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8600"`
	Host            string        `envconfig:"HOST" default:"127.0.0.1"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// PreviewConfig holds document preview configuration.
type PreviewConfig struct {
	Document    string `envconfig:"PREVIEW_DOCUMENT"`
	ProjectRoot string `envconfig:"PREVIEW_PROJECT_ROOT"`
	ProjectName string `envconfig:"PREVIEW_PROJECT_NAME"`
	ProjectURL  string `envconfig:"PREVIEW_PROJECT_URL"`
	SourceExt   string `envconfig:"PREVIEW_SOURCE_EXT" default:".md"`
	Hash        string `envconfig:"PREVIEW_HASH" default:"sha256"`
	Theme       string `envconfig:"PREVIEW_THEME" default:"light"`
	Dark        bool   `envconfig:"PREVIEW_DARK" default:"false"`
	Sanitize    bool   `envconfig:"PREVIEW_SANITIZE" default:"false"`
	ImagesDir   string `envconfig:"PREVIEW_IMAGES_DIR"`

	Extensions []string `envconfig:"PREVIEW_EXTENSIONS"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"200"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"400"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds cross-origin configuration. No origins disables CORS handling.
type CORSConfig struct {
	Origins []string `envconfig:"CORS_ORIGINS"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8600",
			Host:            "127.0.0.1",
			ShutdownTimeout: 5 * time.Second,
		},
		Preview: PreviewConfig{
			SourceExt: ".md",
			Hash:      "sha256",
			Theme:     "light",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 200,
			Burst:             400,
			Enabled:           true,
		},
	}
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}
