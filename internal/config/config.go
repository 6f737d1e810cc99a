package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrMissingAPIKey       = errors.New("STEAM_WEB_API_KEY is required")
	ErrInvalidOutputFormat = errors.New("output.format must be 'csv' or 'xlsx'")
)

type Config struct {
	APIKey   string `yaml:"api_key"`
	Game     string `yaml:"game"`
	Currency string `yaml:"currency"`
	Port     string `yaml:"port"`

	Output OutputConfig `yaml:"output"`
}

// OutputConfig controls the export CLI.
type OutputConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"`
	Full   bool   `yaml:"full"`
}

// Load builds the configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		APIKey:   getEnv("STEAM_WEB_API_KEY", ""),
		Game:     getEnv("GAME", "cs2"),
		Currency: getEnv("CURRENCY", "EUR"),
		Port:     getEnv("PORT", "8080"),
		Output: OutputConfig{
			Path:   getEnv("OUTPUT_PATH", ""),
			Format: getEnv("OUTPUT_FORMAT", "csv"),
			Full:   getEnv("OUTPUT_FULL", "false") == "true",
		},
	}
}

// ApplyFile overlays settings from a YAML file; keys absent from the file
// keep their current values.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// Validate checks the settings the binaries cannot run without.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Output.Format != "csv" && c.Output.Format != "xlsx" {
		return ErrInvalidOutputFormat
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
