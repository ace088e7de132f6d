package content

import (
	"context"
	"log/slog"

	"github.com/Vilsol/slox"
	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/document"
	"github.com/Vilsol/tailcfg/pkg/pipeline"
	"github.com/knadh/koanf/v2"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

var (
	_ pipeline.Stage        = (*Module)(nil)
	_ pipeline.Configurable = (*Module)(nil)
	_ pipeline.NamedStage   = (*Module)(nil)
)

// Config represents configuration for the content [Module].
type Config struct {
	// Instance name (determines settings path, cannot come from a settings file)
	Name string `koanf:"-"`

	// Root is the directory content patterns are relative to.
	Root string `koanf:"root"`

	// Strict fails the stage when an include pattern matches nothing.
	Strict bool `koanf:"strict"`
}

// NewDefaultConfig returns default configuration.
func NewDefaultConfig() Config {
	return Config{
		Name: config.DefaultInstanceName,
		Root: ".",
	}
}

// Option configures the Module.
type Option func(m *Config)

// WithName sets the instance name for this module.
func WithName(name string) Option {
	return func(m *Config) { m.Name = name }
}

// WithRoot sets the scan root.
func WithRoot(root string) Option {
	return func(m *Config) { m.Root = root }
}

// WithStrict makes unmatched patterns an error.
func WithStrict(strict bool) Option {
	return func(m *Config) { m.Strict = strict }
}

// Module scans the document's content patterns during Init, warns about patterns that
// match nothing, and provides the result as *config.Binding[Result]. The scan is
// repeated whenever the document changes.
type Module struct {
	config Config
	result *config.Binding[Result]
}

// NewModule creates a new content scan module with the given options.
func NewModule(options ...Option) *Module {
	cfg := NewDefaultConfig()
	for _, option := range options {
		option(&cfg)
	}
	return &Module{config: cfg}
}

// Name returns the instance name.
func (m *Module) Name() string {
	return m.config.Name
}

// ConfigPath returns the koanf path for this module's configuration.
func (m *Module) ConfigPath() string {
	return config.ModulePath(config.CategoryContent, "scan", m.config.Name)
}

// LoadConfig loads configuration from koanf.
func (m *Module) LoadConfig(k *koanf.Koanf) error {
	path := m.ConfigPath()
	if k.Exists(path) {
		if err := k.Unmarshal(path, &m.config); err != nil {
			return oops.Wrapf(err, "failed to load content settings at path %s", path)
		}
	}
	return nil
}

func (m *Module) Init(ctx context.Context) error {
	injector := pipeline.GetInjector(ctx)

	if k, err := do.Invoke[*koanf.Koanf](injector); err == nil {
		if err := m.LoadConfig(k); err != nil {
			return oops.Wrapf(err, "failed to load config")
		}
	}

	docs, err := do.Invoke[*config.Binding[document.Document]](injector)
	if err != nil {
		return oops.In("content").Wrapf(err, "document stage must run before content")
	}

	result, err := m.scan(ctx, docs.Get())
	if err != nil {
		return err
	}

	m.result = config.NewBinding(&result)
	pipeline.Provide(ctx, func(_ do.Injector) (*config.Binding[Result], error) {
		return m.result, nil
	})

	docs.OnChange(func(doc *document.Document) {
		result, err := m.scan(ctx, doc)
		if err != nil {
			slox.Error(ctx, "content scan failed", slog.Any("error", err))
			return
		}
		m.result.Set(&result)
	})

	return nil
}

func (m *Module) scan(ctx context.Context, doc *document.Document) (Result, error) {
	result, err := Scan(ctx, m.config.Root, doc.Content())
	if err != nil {
		return Result{}, err
	}

	unmatched := result.Unmatched()
	for _, pattern := range unmatched {
		slox.Warn(ctx, "content pattern matches no files", slog.String("pattern", pattern), slog.String("root", m.config.Root))
	}

	if m.config.Strict && len(unmatched) > 0 {
		return Result{}, oops.
			In("content").
			Code("unmatched_content").
			With("patterns", unmatched).
			Errorf("%d content pattern(s) match no files", len(unmatched))
	}

	slox.Info(ctx, "content scanned", slog.Int("files", len(result.Files)), slog.Int("patterns", len(result.Matches)))

	return result, nil
}

func (m *Module) Shutdown(_ context.Context) error {
	return nil
}
