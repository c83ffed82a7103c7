package config

import (
	"fmt"
	"log/slog"
	"strings"
)

const EnvLogLevel = "PROMPTDJ_LOG_LEVEL"

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// SlogLevel returns Level as a slog.Level.
func (c *LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Debug reports whether debug logging is enabled.
func (c *LogConfig) Debug() bool {
	return c.SlogLevel() <= slog.LevelDebug
}

func (c *LogConfig) Finalize() error {
	if c.Level == "" {
		c.Level = "info"
	}
	envString(EnvLogLevel, &c.Level)
	c.Level = strings.ToLower(c.Level)

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return fmt.Errorf("invalid level %q: %w", c.Level, err)
	}
	return nil
}

func (c *LogConfig) Merge(overlay *LogConfig) {
	mergeString(&c.Level, overlay.Level)
}
