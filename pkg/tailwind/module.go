package tailwind

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/Vilsol/slox"
	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/pipeline"
	"github.com/Vilsol/tailcfg/pkg/render"
	"github.com/knadh/koanf/v2"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

var (
	_ pipeline.SyncStage    = (*Module)(nil)
	_ pipeline.Configurable = (*Module)(nil)
	_ pipeline.NamedStage   = (*Module)(nil)
)

// Module runs the Tailwind binary against the rendered artefacts. Start builds once,
// or in watch mode keeps the binary running until the context is cancelled.
type Module struct {
	config Config
	runner *Runner
	run    RunnerConfig
}

// NewModule creates a new tailwind module with the given options.
func NewModule(options ...Option) *Module {
	return &Module{config: NewConfig(options...)}
}

// Name returns the instance name.
func (m *Module) Name() string {
	return m.config.Name
}

// ConfigPath returns the koanf path for this module's configuration.
func (m *Module) ConfigPath() string {
	return config.ModulePath(config.CategoryTailwind, "cli", m.config.Name)
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

	m.run = RunnerConfig{
		InputPath:  m.config.Input,
		OutputPath: m.config.Output,
		Minify:     m.config.Minify,
	}

	// Rendered artefacts are relative to the process, the binary runs in ProjectDir.
	if artifacts, err := do.Invoke[*config.Binding[render.Artifacts]](injector); err == nil {
		rendered := artifacts.Get()
		if m.run.InputPath == "" {
			m.run.InputPath = absolute(rendered.Input)
		}
		// The v4 CLI has no -c; a v4 entry pulls its config in with @config.
		if rendered.Format == render.FormatV3 && rendered.ConfigJS != "" {
			m.run.ConfigPath = absolute(rendered.ConfigJS)
		}
	}

	if m.run.InputPath == "" {
		return oops.In("tailwind").Errorf("no input: configure %s.input or add a render stage", m.ConfigPath())
	}

	binary := NewBinary(m.config.Version, m.config.BinDir, m.config.DownloadURL)
	m.runner = NewRunner(binary, m.config.ProjectDir)

	pipeline.ProvideValue(ctx, m.runner)

	return nil
}

func (m *Module) Start(ctx context.Context) error {
	if !m.config.Watch {
		if err := m.runner.Build(ctx, m.run); err != nil {
			return err
		}
		slox.Info(ctx, "stylesheet built", slog.String("output", m.run.OutputPath))
		return nil
	}

	if err := m.runner.StartWatch(ctx, m.run); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return nil
	case <-m.runner.Done():
		return oops.In("tailwind").Errorf("tailwind watcher exited unexpectedly")
	}
}

func (m *Module) Shutdown(_ context.Context) error {
	if m.runner != nil {
		m.runner.Stop()
	}
	return nil
}

func absolute(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
