// Package config loads gig2sfz settings from YAML
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/james-see/gig2sfz/pkg/converter"
	"github.com/james-see/gig2sfz/pkg/logging"
)

// Config holds all gig2sfz settings
type Config struct {
	// OutputDir receives the generated .sfz files.
	OutputDir string `yaml:"output_dir"`
	// PlaceholderName names instruments that have no name.
	PlaceholderName string       `yaml:"placeholder_name"`
	Log             LogConfig    `yaml:"log"`
	Server          ServerConfig `yaml:"server"`
}

// LogConfig selects log level and format
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the API server
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DefaultConfig returns the built-in settings
func DefaultConfig() *Config {
	return &Config{
		OutputDir:       ".",
		PlaceholderName: converter.DefaultInstrumentName,
		Log: LogConfig{
			Level:  "warn",
			Format: string(logging.FormatText),
		},
		Server: ServerConfig{Port: 8080},
	}
}

// Load reads path over the defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings for values the tools cannot use
func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output_dir must not be empty")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if _, err := logging.New(nil, c.Log.Level, c.Log.Format); err != nil {
		return err
	}
	return nil
}
