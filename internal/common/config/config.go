// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	OpenAI  OpenAIConfig  `mapstructure:"openai"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Port            int   `mapstructure:"port"`
	ReadTimeout     int   `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int   `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int   `mapstructure:"shutdown_timeout"` // milliseconds
	MaxBodyBytes    int64 `mapstructure:"max_body_bytes"`
}

// Addr returns the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// OpenAIConfig holds the completion service settings. APIKey may be empty at
// startup; the match handler rejects requests until it is set.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds, 0 disables the client timeout
	SchemaName  string  `mapstructure:"schema_name"`
}

// HasAPIKey reports whether a completion credential is configured.
func (o OpenAIConfig) HasAPIKey() bool {
	return o.APIKey != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}
