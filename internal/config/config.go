// Package config handles planetgen configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/ChenRaptor/procedural-universe/internal/logger"
	"github.com/ChenRaptor/procedural-universe/internal/planet"
)

// ErrInvalidLogLevel is returned by Validate for an unknown logging level.
var ErrInvalidLogLevel = errors.New("invalid log level")

// Config holds all planetgen settings.
type Config struct {
	Planet  planet.Config `yaml:"planet"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Planet: planet.Default(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every problem in the configuration.
func (c *Config) Validate() error {
	var errs error
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: %w", ErrInvalidLogLevel, err))
	}
	return multierr.Append(errs, c.Planet.Validate())
}
