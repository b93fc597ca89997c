// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server  ServerConfig  `envconfig:"SERVER"`
	Report  ReportConfig  `envconfig:"REPORT"`
	Logging LoggingConfig `envconfig:"LOG"`
}

// ServerConfig holds HTTP server settings for the serve command.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `envconfig:"HOST" default:"127.0.0.1"`

	// Port is the port to listen on (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading a request (default: 15s)
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing a response (default: 30s)
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `envconfig:"IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 10s)
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// APIKeys, when set, are required in the X-API-Key header of /api requests (comma-separated)
	APIKeys []string `envconfig:"API_KEYS"`
}

// ReportConfig holds report generation settings.
type ReportConfig struct {
	// OutputSuffix is appended to the input name to build the output name (default: _res)
	OutputSuffix string `envconfig:"OUTPUT_SUFFIX" default:"_res"`

	// HistoryLimit is the number of report attempts kept in memory (default: 50)
	HistoryLimit int `envconfig:"HISTORY_LIMIT" default:"50"`

	// DefaultLookback is used when no explicit start date is given (default: 336h, two weeks)
	DefaultLookback time.Duration `envconfig:"DEFAULT_LOOKBACK" default:"336h"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `envconfig:"LEVEL" default:"info"`

	// Format is the log format: console, text or json (default: console)
	Format string `envconfig:"FORMAT" default:"console"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
