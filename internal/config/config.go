// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// APIKeySectionName is the name of the configuration section holding API keys.
const APIKeySectionName = "ApiKey"

// APIKeyOptions holds the API keys accepted by the service.
// Entries are either plaintext keys or argon2id PHC hashes. PHC hashes
// contain commas, so the list is semicolon separated.
type APIKeyOptions struct {
	ValidKeys []string `env:"VALID_KEYS" envSeparator:";"`
}

// NewAPIKeyOptions returns options with an empty, non-nil key list.
func NewAPIKeyOptions(keys ...string) APIKeyOptions {
	opts := APIKeyOptions{ValidKeys: []string{}}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			opts.ValidKeys = append(opts.ValidKeys, k)
		}
	}
	return opts
}

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Storage backend: postgres or memory
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`

	// Database (PostgreSQL), required for the postgres driver
	DatabaseURL string `env:"DATABASE_URL"`

	// Cache (Redis). Empty disables caching and rate limiting.
	RedisURL string `env:"REDIS_URL"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Cache TTLs
	SetCacheTTL  time.Duration `env:"SET_CACHE_TTL" envDefault:"10m"`
	AuthCacheTTL time.Duration `env:"AUTH_CACHE_TTL" envDefault:"5m"`

	// Rate limiting (per API key, requests per minute)
	RateLimitAPIEnabled bool `env:"RATE_LIMIT_API_ENABLED" envDefault:"true"`
	RateLimitAPIRPM     int  `env:"RATE_LIMIT_API_RPM" envDefault:"600"`
	RateLimitAPIBurst   int  `env:"RATE_LIMIT_API_BURST" envDefault:"60"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// "ApiKey" section
	APIKey APIKeyOptions `envPrefix:"API_KEY_"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// RedisEnabled reports whether a Redis URL is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != ""
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres storage driver")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.RateLimitAPIEnabled && (c.RateLimitAPIRPM <= 0 || c.RateLimitAPIBurst <= 0) {
		return errors.New("RATE_LIMIT_API_RPM and RATE_LIMIT_API_BURST must be positive")
	}

	return nil
}

// Load reads an optional .env file, parses environment variables and returns a Config.
// Returns an error if the resulting configuration is invalid.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	cfg.APIKey = NewAPIKeyOptions(cfg.APIKey.ValidKeys...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
