// Package config provides centralized configuration management for the
// application. It loads settings from environment variables with
// sensible defaults and validates everything on startup to fail fast on
// misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Upload  UploadConfig
	Store   StoreConfig
	Rate    RateLimitConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	// Supports both SERVER_PORT and the conventional PORT env var
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request body (default: 30s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"30s"`

	// WriteTimeout is the maximum duration for writing the response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// UploadConfig holds file handling settings.
type UploadConfig struct {
	// Dir is where uploaded and anonymized files are stored (default: ./uploads)
	Dir string `env:"UPLOAD_DIR" default:"./uploads"`

	// MaxFileSize is the maximum allowed upload size in bytes (default: 16MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"16777216"`

	// TTL is how long an upload may sit unreleased before the sweeper
	// removes it (default: 1h)
	TTL time.Duration `env:"UPLOAD_TTL" default:"1h"`

	// SweepInterval is how often the TTL sweeper runs (default: 5m)
	SweepInterval time.Duration `env:"UPLOAD_SWEEP_INTERVAL" default:"5m"`
}

// StoreConfig selects the handle registry backend.
type StoreConfig struct {
	// Driver is the registry backend: "memory" or "redis" (default: memory)
	Driver string `env:"STORE_DRIVER" default:"memory"`

	// RedisURL is the Redis connection string, used when Driver is "redis"
	RedisURL string `env:"REDIS_URL" default:"redis://localhost:6379/0"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
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
