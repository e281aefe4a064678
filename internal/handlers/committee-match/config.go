// internal/handlers/committee-match/config.go
package committeematch

import (
	"fmt"

	"committee-matcher/internal/common/config"
)

type Config struct {
	APIKey       string  `mapstructure:"api_key"`
	Model        string  `mapstructure:"model"`
	Temperature  float64 `mapstructure:"temperature"`
	SchemaName   string  `mapstructure:"schema_name"`
	MaxBodyBytes int64   `mapstructure:"max_body_bytes"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:        config.DefaultModel,
		Temperature:  config.DefaultTemperature,
		SchemaName:   config.DefaultSchemaName,
		MaxBodyBytes: 1 << 20,
	}
}

// ConfigFromApp maps the application configuration onto the handler.
func ConfigFromApp(cfg *config.Config) *Config {
	c := DefaultConfig()
	c.APIKey = cfg.OpenAI.APIKey
	if cfg.OpenAI.Model != "" {
		c.Model = cfg.OpenAI.Model
	}
	c.Temperature = cfg.OpenAI.Temperature
	if cfg.OpenAI.SchemaName != "" {
		c.SchemaName = cfg.OpenAI.SchemaName
	}
	if cfg.Server.MaxBodyBytes > 0 {
		c.MaxBodyBytes = cfg.Server.MaxBodyBytes
	}
	return c
}

// Validate checks static settings only. A missing APIKey is reported per
// request, not here.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model must not be empty")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.SchemaName == "" {
		return fmt.Errorf("schema_name must not be empty")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	return nil
}
