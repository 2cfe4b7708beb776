package config

import (
	"fmt"
	"strings"
)

// LoggingConfig selects the global log level.
type LoggingConfig struct {
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		return nil
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
}
