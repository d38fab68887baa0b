package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

var (
	validOutputs    = []string{"auto", "text", "yaml", "json"}
	validLogFormats = []string{"text", "json"}
	validColors     = []string{"auto", "always", "never"}
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(validOutputs, c.Output) {
		return fmt.Errorf("invalid output %q (expected %s)", c.Output, strings.Join(validOutputs, "|"))
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	if !slices.Contains(validLogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log_format %q (expected %s)", c.LogFormat, strings.Join(validLogFormats, "|"))
	}
	if !slices.Contains(validColors, c.Color) {
		return fmt.Errorf("invalid color %q (expected %s)", c.Color, strings.Join(validColors, "|"))
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative, got %s", c.WatchDebounce)
	}
	return nil
}

// SlogLevel parses LogLevel.
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
