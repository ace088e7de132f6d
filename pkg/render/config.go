package render

import (
	"path/filepath"

	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

// Config represents configuration for the render [Module].
type Config struct {
	// Instance name (determines settings path, cannot come from a settings file)
	Name string `koanf:"-"`

	// Format of the rendered artefacts.
	Format Format `enum:"v4,v3" koanf:"format"`

	// Root is the directory content patterns are relative to.
	Root string `koanf:"root"`

	// Input is where the CSS entry file is written.
	Input string `koanf:"input"`

	// ConfigJS is where tailwind.config.js is written.
	ConfigJS string `koanf:"config_js"`

	// WriteConfigJS also writes tailwind.config.js in v4 format. v3 always writes it.
	WriteConfigJS bool `koanf:"write_config_js"`

	// DryRun resolves, activates and renders without touching the filesystem.
	DryRun bool `koanf:"dry_run"`
}

// NewDefaultConfig returns default configuration.
func NewDefaultConfig() Config {
	return Config{
		Name:     config.DefaultInstanceName,
		Format:   FormatV4,
		Root:     ".",
		Input:    filepath.Join(".tailcfg", "input.css"),
		ConfigJS: filepath.Join(".tailcfg", "tailwind.config.js"),
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
	if err := k.Unmarshal(path, c); err != nil {
		return oops.Wrapf(err, "failed to load render settings at path %s", path)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	switch c.Format {
	case FormatV4, FormatV3:
	default:
		return oops.In("render").With("format", c.Format).Errorf("format must be one of v4, v3, got %q", c.Format)
	}
	if c.Input == "" {
		return oops.In("render").Errorf("input path must not be empty")
	}
	if c.ConfigJS == "" && c.writesConfigJS() {
		return oops.In("render").Errorf("config_js path must not be empty")
	}
	return nil
}

func (c *Config) writesConfigJS() bool {
	return c.Format == FormatV3 || c.WriteConfigJS
}

// Option configures the Module.
type Option func(m *Config)

// WithName sets the instance name for this module.
func WithName(name string) Option {
	return func(m *Config) { m.Name = name }
}

// WithFormat sets the artefact format.
func WithFormat(format Format) Option {
	return func(m *Config) { m.Format = format }
}

// WithRoot sets the directory content patterns are relative to.
func WithRoot(root string) Option {
	return func(m *Config) { m.Root = root }
}

// WithInput sets the CSS entry file path.
func WithInput(path string) Option {
	return func(m *Config) { m.Input = path }
}

// WithConfigJS sets the tailwind.config.js path.
func WithConfigJS(path string) Option {
	return func(m *Config) { m.ConfigJS = path }
}

// WithWriteConfigJS enables writing tailwind.config.js in v4 format.
func WithWriteConfigJS(write bool) Option {
	return func(m *Config) { m.WriteConfigJS = write }
}

// WithDryRun renders without writing files.
func WithDryRun(dryRun bool) Option {
	return func(m *Config) { m.DryRun = dryRun }
}
