package slog

import (
	"log/slog"
	"strings"

	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

// Config represents configuration for the slog [Module].
type Config struct {
	// Instance name
	Name string `koanf:"-"`

	// Level is the default log level.
	Level string `enum:"debug,info,warn,error" koanf:"level"`

	// Levels maps package path prefixes to level overrides.
	Levels map[string]string `koanf:"levels"`

	// GlobalDefault installs the logger as slog's default.
	GlobalDefault bool `koanf:"global_default"`
}

// NewDefaultConfig returns default configuration.
func NewDefaultConfig() Config {
	return Config{
		Name:          config.DefaultInstanceName,
		Level:         "info",
		GlobalDefault: true,
	}
}

// NewConfig returns configuration with provided options based on defaults.
func NewConfig(options ...Option) Config {
	cfg := NewDefaultConfig()
	for _, option := range options {
		option(&cfg)
	}
	return cfg
}

// LoadFromKoanf loads configuration from koanf instance at the given path.
func (c *Config) LoadFromKoanf(k *koanf.Koanf, path string) error {
	return oops.Wrapf(k.Unmarshal(path, c), "failed to load config from koanf at path %s", path)
}

// ParsedLevel returns the default level.
func (c *Config) ParsedLevel() slog.Level {
	return parseLevel(c.Level)
}

// ParsedLevels returns the per-package overrides, nil when there are none.
func (c *Config) ParsedLevels() map[string]slog.Level {
	if len(c.Levels) == 0 {
		return nil
	}

	parsed := make(map[string]slog.Level, len(c.Levels))
	for pkg, lvl := range c.Levels {
		parsed[pkg] = parseLevel(lvl)
	}
	return parsed
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

// Option configures the Module.
type Option func(m *Config)

// WithName sets the instance name for this module.
func WithName(name string) Option {
	return func(m *Config) { m.Name = name }
}

// WithLevel sets the default log level.
func WithLevel(level string) Option {
	return func(m *Config) { m.Level = level }
}

// WithLevels sets per-package log level overrides.
func WithLevels(levels map[string]string) Option {
	return func(m *Config) { m.Levels = levels }
}

// WithGlobalDefault controls whether the logger replaces slog's default.
func WithGlobalDefault(global bool) Option {
	return func(m *Config) { m.GlobalDefault = global }
}
