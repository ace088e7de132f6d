package tailwind

import (
	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
)

// Config represents configuration for the tailwind [Module].
type Config struct {
	// Instance name (determines settings path, cannot come from a settings file)
	Name string `koanf:"-"`

	// Version is the Tailwind release tag.
	Version string `koanf:"version"`

	// BinDir caches downloaded binaries. Defaults to ~/.tailcfg/bin.
	BinDir string `koanf:"bin_dir"`

	// DownloadURL replaces the GitHub release base URL.
	DownloadURL string `koanf:"download_url"`

	// ProjectDir is the working directory of the binary.
	ProjectDir string `koanf:"project_dir"`

	// Input overrides the rendered CSS entry file.
	Input string `koanf:"input"`

	// Output is the generated stylesheet.
	Output string `koanf:"output"`

	// Minify enables minification.
	Minify bool `koanf:"minify"`

	// Watch keeps the binary running and rebuilding until shutdown.
	Watch bool `koanf:"watch"`
}

// NewDefaultConfig returns default configuration.
func NewDefaultConfig() Config {
	return Config{
		Name:       config.DefaultInstanceName,
		Version:    DefaultVersion,
		ProjectDir: ".",
		Output:     "static/css/output.css",
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
		return oops.Wrapf(err, "failed to load tailwind settings at path %s", path)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.Version == "" {
		return oops.In("tailwind").Errorf("version must not be empty")
	}
	if c.Output == "" {
		return oops.In("tailwind").Errorf("output must not be empty")
	}
	return nil
}

// Option configures the Module.
type Option func(m *Config)

// WithName sets the instance name for this module.
func WithName(name string) Option {
	return func(m *Config) { m.Name = name }
}

// WithVersion sets the Tailwind release.
func WithVersion(version string) Option {
	return func(m *Config) { m.Version = version }
}

// WithBinDir sets the binary cache directory.
func WithBinDir(dir string) Option {
	return func(m *Config) { m.BinDir = dir }
}

// WithDownloadURL sets the release base URL.
func WithDownloadURL(url string) Option {
	return func(m *Config) { m.DownloadURL = url }
}

// WithProjectDir sets the working directory of the binary.
func WithProjectDir(dir string) Option {
	return func(m *Config) { m.ProjectDir = dir }
}

// WithInput overrides the CSS entry file.
func WithInput(path string) Option {
	return func(m *Config) { m.Input = path }
}

// WithOutput sets the generated stylesheet path.
func WithOutput(path string) Option {
	return func(m *Config) { m.Output = path }
}

// WithMinify enables minification.
func WithMinify(minify bool) Option {
	return func(m *Config) { m.Minify = minify }
}

// WithWatch enables watch mode.
func WithWatch(watch bool) Option {
	return func(m *Config) { m.Watch = watch }
}
