package slog

import (
	"context"
	"log/slog"

	"github.com/Vilsol/slox"
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

// Module builds the *slog.Logger every other stage logs through.
// It needs a slog.Handler in DI, normally from the tint stage.
type Module struct {
	config Config
	filter *levelFilter
	logger *slog.Logger
}

func NewModule(options ...Option) *Module {
	return &Module{config: NewConfig(options...)}
}

func (m *Module) Name() string {
	return m.config.Name
}

func (m *Module) ConfigPath() string {
	return config.ModulePath(config.CategoryLogging, "slog", m.config.Name)
}

func (m *Module) LoadConfig(k *koanf.Koanf) error {
	path := m.ConfigPath()
	if k.Exists(path) {
		return m.config.LoadFromKoanf(k, path)
	}
	return nil
}

func (m *Module) Init(ctx context.Context) error {
	injector := pipeline.GetInjector(ctx)

	handler, err := do.Invoke[slog.Handler](injector)
	if err != nil {
		return oops.Wrapf(err, "failed to retrieve logger handler")
	}

	if k, err := do.Invoke[*koanf.Koanf](injector); err == nil {
		if err := m.LoadConfig(k); err != nil {
			return oops.Wrapf(err, "failed to load config")
		}
	}

	m.filter = newLevelFilter(handler, m.config.ParsedLevel(), m.config.ParsedLevels())
	m.logger = slog.New(m.filter)

	if m.config.GlobalDefault {
		slog.SetDefault(m.logger)
	}

	if notifier, err := do.Invoke[config.ReloadNotifier](injector); err == nil {
		notifier.OnReload(func(k *koanf.Koanf) {
			cfg := NewConfig(WithName(m.config.Name))
			if err := cfg.LoadFromKoanf(k, m.ConfigPath()); err != nil {
				slox.Warn(ctx, "keeping previous log levels", slog.Any("error", err))
				return
			}
			m.filter.Update(cfg.ParsedLevel(), cfg.ParsedLevels())
		})
	}

	pipeline.Provide(ctx, m.GetLogger)

	return nil
}

func (m *Module) Shutdown(_ context.Context) error {
	return nil
}

func (m *Module) GetLogger(_ do.Injector) (*slog.Logger, error) {
	return m.logger, nil
}
