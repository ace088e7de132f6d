package render

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Vilsol/slox"
	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/document"
	"github.com/Vilsol/tailcfg/pkg/pipeline"
	"github.com/Vilsol/tailcfg/pkg/plugin"
	"github.com/Vilsol/tailcfg/pkg/plugin/builtin"
	"github.com/knadh/koanf/v2"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

var (
	_ pipeline.Stage        = (*Module)(nil)
	_ pipeline.Configurable = (*Module)(nil)
	_ pipeline.NamedStage   = (*Module)(nil)
)

// Module renders the build artefacts during Init and provides them as *config.Binding[Artifacts].
// When the document binding changes the artefacts are rendered again; a document that
// fails plugin activation keeps the previous artefacts in place.
type Module struct {
	config    Config
	mu        sync.Mutex
	artifacts *config.Binding[Artifacts]
}

// NewModule creates a new render module with the given options.
func NewModule(options ...Option) *Module {
	return &Module{config: NewConfig(options...)}
}

// Name returns the instance name.
func (m *Module) Name() string {
	return m.config.Name
}

// ConfigPath returns the koanf path for this module's configuration.
func (m *Module) ConfigPath() string {
	return config.ModulePath(config.CategoryRender, "files", m.config.Name)
}

// LoadConfig loads configuration from koanf.
func (m *Module) LoadConfig(k *koanf.Koanf) error {
	path := m.ConfigPath()
	if k.Exists(path) {
		return m.config.LoadFromKoanf(k, path)
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
		return oops.In("render").Wrapf(err, "document stage must run before render")
	}

	registry, err := do.Invoke[*plugin.Registry](injector)
	if err != nil {
		registry = builtin.Registry()
	}

	out, err := m.render(ctx, docs.Get(), registry)
	if err != nil {
		return err
	}

	m.artifacts = config.NewBinding(&out)
	pipeline.Provide(ctx, func(_ do.Injector) (*config.Binding[Artifacts], error) {
		return m.artifacts, nil
	})

	docs.OnChange(func(doc *document.Document) {
		out, err := m.render(ctx, doc, registry)
		if err != nil {
			slox.Error(ctx, "failed to render artefacts, keeping previous", slog.Any("error", err))
			return
		}
		if out.Changed {
			m.artifacts.Set(&out)
		}
	})

	return nil
}

func (m *Module) render(ctx context.Context, doc *document.Document, registry *plugin.Registry) (Artifacts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out, err := Render(m.config, doc, registry)
	if err != nil {
		return Artifacts{}, err
	}

	slox.Info(ctx, "artefacts rendered",
		slog.String("input", out.Input),
		slog.String("config_js", out.ConfigJS),
		slog.Bool("changed", out.Changed),
	)

	return out, nil
}

func (m *Module) Shutdown(_ context.Context) error {
	return nil
}
