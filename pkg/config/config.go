// Package config loads tailcfg's own settings (not the style document) using koanf.
// Settings come from YAML, JSON or TOML files, TAILCFG_* environment variables and
// CLI flags, and are reloaded when a settings file changes.
package config

import "github.com/knadh/koanf/v2"

const (
	defaultEnvPrefix  = "TAILCFG_"
	defaultConfigName = "tailcfg"
)

// ReloadNotifier can register callbacks for settings reload events.
type ReloadNotifier interface {
	OnReload(fn func(k *koanf.Koanf))
}

// Config holds the configuration for the settings module.
type Config struct {
	// EnvPrefix specifies the prefix for environment variables overriding settings.
	EnvPrefix string

	// ConfigDirs specifies the directories to search for settings files in the given order.
	ConfigDirs []string

	// ConfigName specifies the base name of the settings file without its extension.
	ConfigName string

	// Args contains the command-line arguments parsed for settings overrides.
	Args []string

	// Defaults are loaded before any file, env var or flag.
	Defaults map[string]any

	// Watch enables hot reload of discovered settings files.
	Watch bool
}

// Option manipulates Config.
type Option func(cfg *Config)

// NewDefaultConfig returns default configuration.
func NewDefaultConfig() Config {
	return Config{
		EnvPrefix:  defaultEnvPrefix,
		ConfigDirs: []string{".", "./config", "/etc/tailcfg"},
		ConfigName: defaultConfigName,
		Args:       nil,
		Watch:      true,
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

// WithEnvPrefix sets the environment variable prefix (default: "TAILCFG_").
func WithEnvPrefix(prefix string) Option {
	return func(cfg *Config) {
		cfg.EnvPrefix = prefix
	}
}

// WithConfigDirs sets directories to search for settings files.
func WithConfigDirs(dirs ...string) Option {
	return func(cfg *Config) {
		cfg.ConfigDirs = dirs
	}
}

// WithConfigName sets the base settings file name without extension (default: "tailcfg").
func WithConfigName(name string) Option {
	return func(cfg *Config) {
		cfg.ConfigName = name
	}
}

// WithArgs sets CLI arguments to parse for settings overrides.
func WithArgs(args []string) Option {
	return func(cfg *Config) {
		cfg.Args = args
	}
}

// WithDefaults sets flat or nested default values keyed by koanf path.
func WithDefaults(defaults map[string]any) Option {
	return func(cfg *Config) {
		cfg.Defaults = defaults
	}
}

// WithWatch toggles hot reload of settings files.
func WithWatch(watch bool) Option {
	return func(cfg *Config) {
		cfg.Watch = watch
	}
}
