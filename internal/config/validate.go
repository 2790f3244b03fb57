package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateConversion(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.WorkRoot) == "" {
		return errors.New("paths.work_root must be set")
	}
	if c.History.Enabled && strings.TrimSpace(c.Paths.HistoryPath) == "" {
		return errors.New("paths.history_path must be set when history.enabled is true")
	}
	return nil
}

func (c *Config) validateConversion() error {
	if c.Conversion.Quality < 0 || c.Conversion.Quality > 100 {
		return fmt.Errorf("conversion.quality must be between 0 and 100, got %d", c.Conversion.Quality)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}
