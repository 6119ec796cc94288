package domain

// Calculator computes post-test dementia probability from a complete selection.
type Calculator interface {
	Calculate(gender Gender, age AgeBracket, mmse MMSEResult) (DementiaStats, error)
	CalculateSelection(sel Selection) (DementiaStats, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetMCPConfig() *MCPConfig
	GetLoggingConfig() *LoggingConfig
	Reload() error
	Validate() error
	IsProduction() bool
	IsDevelopment() bool
}
