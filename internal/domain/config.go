package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Environment string        `mapstructure:"environment"`
	Server      ServerConfig  `mapstructure:"server"`
	MCP         MCPConfig     `mapstructure:"mcp"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	RateLimit     float64       `mapstructure:"rate_limit"` // requests per second per client
	RateBurst     int           `mapstructure:"rate_burst"`
	RateLimitIdle time.Duration `mapstructure:"rate_limit_idle"` // bucket lifetime after a client's last request
}

// MCPConfig represents MCP transport configuration
type MCPConfig struct {
	Transport string `mapstructure:"transport"` // stdio or http
	HTTPPort  int    `mapstructure:"http_port"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// Supported MCP transports
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)
