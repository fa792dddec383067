package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/skdltmxn/rustsym-go/rustsym"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// Config represents the rustsym configuration file
type Config struct {
	LogLevel      string `yaml:"log_level"`
	Color         string `yaml:"color"`
	Legacy        *bool  `yaml:"legacy"`
	MaxNameLength int    `yaml:"max_name_length"`
}

// LegacyEnabled reports whether "_ZN" names are decoded.
func (c *Config) LegacyEnabled() bool {
	return c.Legacy == nil || *c.Legacy
}

func getDefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// LoadConfig loads configuration from the specified file.
// A missing file yields the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	_, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config
	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	return &config, nil
}

func validateConfig(config *Config) error {
	validLevels := map[string]bool{
		"":      true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[config.LogLevel] {
		return fmt.Errorf("%w: invalid log_level '%s': must be one of debug, info, warn, error", ErrConfigValidation, config.LogLevel)
	}

	validColors := map[string]bool{
		"":       true,
		"auto":   true,
		"always": true,
		"never":  true,
	}
	if !validColors[config.Color] {
		return fmt.Errorf("%w: invalid color '%s': must be one of auto, always, never", ErrConfigValidation, config.Color)
	}

	if config.MaxNameLength < 0 {
		return fmt.Errorf("%w: max_name_length must not be negative", ErrConfigValidation)
	}
	return nil
}

func applyDefaults(config *Config) {
	if config.LogLevel == "" {
		config.LogLevel = "warn"
	}
	if config.Color == "" {
		config.Color = "auto"
	}
	if config.MaxNameLength == 0 {
		config.MaxNameLength = rustsym.MaxNameLength
	}
}
