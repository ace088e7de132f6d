package tint

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/knadh/koanf/v2"
	"github.com/lmittmann/tint"
	"github.com/samber/oops"
)

// Config represents configuration for the tint [Module].
type Config struct {
	// Instance name (determines settings path, cannot come from a settings file)
	Name string `koanf:"-"`

	// Writer receives formatted records.
	Writer io.Writer `code_only:"WithWriter" koanf:"-"`

	// Level is the minimum level the handler emits.
	Level string `enum:"debug,info,warn,error" koanf:"level"`

	// TimeFormat is the Go layout used for timestamps.
	TimeFormat string `koanf:"time_format"`

	// NoColor disables ANSI colors.
	NoColor bool `koanf:"no_color"`

	// AddSource adds the caller location to each record.
	AddSource bool `koanf:"add_source"`
}

// NewDefaultConfig returns default configuration.
func NewDefaultConfig() Config {
	return Config{
		Name:       config.DefaultInstanceName,
		Writer:     os.Stderr,
		Level:      "info",
		TimeFormat: time.Kitchen,
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
	return oops.Wrapf(k.Unmarshal(path, c), "failed to load tint settings at path %s", path)
}

// ParseLevel parses the configured level, falling back to info.
func (c *Config) ParseLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// TintOptions returns tint.Options using level as the minimum level.
func (c *Config) TintOptions(level slog.Leveler) *tint.Options {
	return &tint.Options{
		AddSource:  c.AddSource,
		Level:      level,
		TimeFormat: c.TimeFormat,
		NoColor:    c.NoColor,
	}
}

// NewHandler creates a tint handler writing to c.Writer.
func (c *Config) NewHandler(level slog.Leveler) slog.Handler { //nolint:ireturn
	return tint.NewHandler(c.Writer, c.TintOptions(level))
}

// Option configures the Module.
type Option func(m *Config)

// WithName sets the instance name for this module.
func WithName(name string) Option {
	return func(m *Config) { m.Name = name }
}

// WithWriter sets the output writer (code-only, cannot be configured via files).
func WithWriter(writer io.Writer) Option {
	return func(m *Config) { m.Writer = writer }
}

// WithLevel sets the minimum level.
func WithLevel(level string) Option {
	return func(m *Config) { m.Level = level }
}

// WithNoColor disables colored output.
func WithNoColor(noColor bool) Option {
	return func(m *Config) { m.NoColor = noColor }
}
