// Package config provides centralized configuration management for the member portal.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Cache    CacheConfig
	Lookup   LookupConfig
	Draft    DraftConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 2)
	MinConns int `env:"DB_MIN_CONNS" default:"2"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// CacheConfig holds Redis settings for lookup caching.
type CacheConfig struct {
	// RedisURL is a redis:// URL. Empty disables caching.
	RedisURL string `env:"REDIS_URL"`

	// TTL is how long lookup results stay cached (default: 10m)
	TTL time.Duration `env:"LOOKUP_CACHE_TTL" default:"10m"`
}

// Enabled reports whether a Redis cache is configured.
func (c CacheConfig) Enabled() bool {
	return c.RedisURL != ""
}

// LookupConfig holds address and identifier lookup settings.
type LookupConfig struct {
	// Timeout bounds a single lookup request (default: 3s)
	Timeout time.Duration `env:"LOOKUP_TIMEOUT" default:"3s"`

	// MaxResults caps address autocomplete results (default: 20)
	MaxResults int `env:"LOOKUP_MAX_RESULTS" default:"20"`
}

// DraftConfig holds application draft settings.
type DraftConfig struct {
	// TTL is how long an untouched draft is kept (default: 30 days)
	TTL time.Duration `env:"DRAFT_TTL" default:"720h"`

	// PurgeInterval is how often expired drafts and sessions are purged (default: 1h)
	PurgeInterval time.Duration `env:"DRAFT_PURGE_INTERVAL" default:"1h"`
}

// UploadConfig holds member logo upload settings.
type UploadConfig struct {
	// LogoMaxSize is the maximum logo size in bytes (default: 2MB)
	LogoMaxSize int64 `env:"LOGO_MAX_SIZE" default:"2097152"`

	// MaxConcurrent is the maximum number of parallel logo uploads (default: 4)
	MaxConcurrent int `env:"LOGO_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for an upload slot (default: 10s)
	MaxWaitTime time.Duration `env:"LOGO_MAX_WAIT_TIME" default:"10s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 300)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"300"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// AdminSessionTTL is the lifetime of an admin sign-in (default: 8h)
	AdminSessionTTL time.Duration `env:"ADMIN_SESSION_TTL" default:"8h"`

	// AdminCookieSecure marks the admin session cookie Secure (default: true)
	AdminCookieSecure bool `env:"ADMIN_COOKIE_SECURE" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
