package obslog

import (
	"errors"

	"go.uber.org/zap/zapcore"
)

// Config controls logger construction. It mirrors the shape of the
// teacher's internal/logging.Config, trimmed to the fields this engine
// actually uses (no OTEL log-bridge, no multi-tenant fields).
type Config struct {
	// Level is the minimum level emitted; supports "trace" in addition to
	// zap's standard names.
	Level string `koanf:"level"`

	// Format selects "json" (default, production) or "console" (local dev).
	Format string `koanf:"format"`

	// Fields are constant key/value pairs attached to every log line
	// (e.g. {"service": "memsearchd"}).
	Fields map[string]string `koanf:"fields"`
}

// NewDefaultConfig returns the engine's default logging configuration.
func NewDefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
	}
}

// Validate checks the configuration for obviously invalid values.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("logging config is nil")
	}
	if c.Format != "" && c.Format != "json" && c.Format != "console" {
		return errors.New("logging format must be \"json\" or \"console\"")
	}
	if c.Level != "" {
		if _, err := LevelFromString(c.Level); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) level() zapcore.Level {
	lvl, err := LevelFromString(c.Level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
