// Package config provides configuration management for the dementia
// probability servers. Only transport and logging are configurable; the
// clinical tables are fixed.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dementia-probability-mcp/internal/domain"
)

// EnvPrefix is the prefix for environment overrides, e.g. DEMENTIA_SERVER_PORT.
const EnvPrefix = "DEMENTIA"

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v          *viper.Viper
	configFile string
	config     *domain.Config
}

var _ domain.ConfigManager = (*Manager)(nil)

// Option customises a Manager before the first load.
type Option func(*Manager)

// WithConfigFile reads the given file instead of searching the default paths.
func WithConfigFile(path string) Option {
	return func(m *Manager) {
		m.configFile = path
	}
}

// NewManager creates a new configuration manager
func NewManager(opts ...Option) (*Manager, error) {
	m := &Manager{}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from defaults, an optional .env file, an
// optional config file and the environment, in increasing precedence.
func (m *Manager) loadConfig() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	if m.configFile != "" {
		v.SetConfigFile(m.configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/dementia-probability/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional when searching default paths
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if m.configFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}
	normalize(config)

	m.v = v
	m.config = config
	return nil
}

// normalize lowercases the enumerated settings so that Validate, the logger
// and the transport switch all see the same spelling.
func normalize(config *domain.Config) {
	config.Environment = strings.ToLower(strings.TrimSpace(config.Environment))
	config.MCP.Transport = strings.ToLower(strings.TrimSpace(config.MCP.Transport))
	config.Logging.Level = strings.ToLower(strings.TrimSpace(config.Logging.Level))
	config.Logging.Format = strings.ToLower(strings.TrimSpace(config.Logging.Format))
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.rate_limit_idle", "10m")

	// MCP defaults
	v.SetDefault("mcp.transport", domain.TransportStdio)
	v.SetDefault("mcp.http_port", 8081)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns HTTP server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetMCPConfig returns MCP transport configuration
func (m *Manager) GetMCPConfig() *domain.MCPConfig {
	return &m.config.MCP
}

// GetLoggingConfig returns logging configuration
func (m *Manager) GetLoggingConfig() *domain.LoggingConfig {
	return &m.config.Logging
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Server.RateLimit <= 0 {
		return fmt.Errorf("rate limit must be positive, got %v", config.Server.RateLimit)
	}
	if config.Server.RateBurst <= 0 {
		return fmt.Errorf("rate burst must be positive, got %d", config.Server.RateBurst)
	}
	if config.Server.RateLimitIdle <= 0 {
		return fmt.Errorf("rate limit idle timeout must be positive, got %v", config.Server.RateLimitIdle)
	}

	switch config.MCP.Transport {
	case domain.TransportStdio, domain.TransportHTTP:
	default:
		return fmt.Errorf("unsupported MCP transport: %s", config.MCP.Transport)
	}
	if config.MCP.HTTPPort <= 0 || config.MCP.HTTPPort > 65535 {
		return fmt.Errorf("invalid MCP HTTP port: %d", config.MCP.HTTPPort)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[config.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}
	switch config.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return m.config.Environment == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := m.config.Environment
	return env == "development" || env == "dev" || env == ""
}
