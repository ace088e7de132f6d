package tint

import (
	"context"
	"log/slog"

	"github.com/Vilsol/tailcfg/pkg/config"
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

// Module is the terminal slog.Handler of the pipeline. Its level follows
// settings reloads; colors and time format are fixed at Init.
type Module struct {
	config  Config
	level   slog.LevelVar
	handler slog.Handler
}

func NewModule(options ...Option) *Module {
	return &Module{config: NewConfig(options...)}
}

func (m *Module) Name() string {
	return m.config.Name
}

func (m *Module) ConfigPath() string {
	return config.ModulePath(config.CategoryLogging, "tint", m.config.Name)
}

func (m *Module) LoadConfig(k *koanf.Koanf) error {
	if !k.Exists(m.ConfigPath()) {
		return nil
	}
	return m.config.LoadFromKoanf(k, m.ConfigPath())
}

// Level reports the level currently applied by the handler.
func (m *Module) Level() slog.Level {
	return m.level.Level()
}

func (m *Module) Init(ctx context.Context) error {
	injector := pipeline.GetInjector(ctx)

	if k, err := do.Invoke[*koanf.Koanf](injector); err == nil {
		if err := m.LoadConfig(k); err != nil {
			return oops.In("tint").Wrapf(err, "failed to load config")
		}
	}

	m.level.Set(m.config.ParseLevel())
	m.handler = m.config.NewHandler(&m.level)

	if notifier, err := do.Invoke[config.ReloadNotifier](injector); err == nil {
		notifier.OnReload(m.reload)
	}

	pipeline.ProvideValue(ctx, m.handler)

	return nil
}

// reload only touches the level; a bad value keeps the current one.
func (m *Module) reload(k *koanf.Koanf) {
	cfg := NewConfig(WithName(m.config.Name), WithLevel(m.config.Level))
	if err := cfg.LoadFromKoanf(k, m.ConfigPath()); err != nil {
		return
	}
	m.level.Set(cfg.ParseLevel())
}

func (m *Module) Shutdown(_ context.Context) error {
	return nil
}
