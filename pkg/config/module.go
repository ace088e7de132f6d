package config

import (
	"context"
	"sync"

	"github.com/Vilsol/tailcfg/pkg/pipeline"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

var _ pipeline.Stage = (*Module)(nil)

// Module is the settings stage. It must be the first stage of a pipeline.
type Module struct {
	config      Config
	koanf       *koanf.Koanf
	mu          sync.RWMutex
	configFiles []configFile
	flagSet     *pflag.FlagSet
	onReload    []func(k *koanf.Koanf)
}

// NewModule creates a new settings module.
func NewModule(options ...Option) *Module {
	return &Module{
		config: NewConfig(options...),
		koanf:  koanf.New("."),
	}
}

// Init loads settings from defaults, files, env vars and CLI flags and registers
// *koanf.Koanf and ReloadNotifier in DI.
func (m *Module) Init(ctx context.Context) error {
	for key, value := range m.config.Defaults {
		if err := m.koanf.Set(key, value); err != nil {
			return oops.In("config").With("key", key).Wrapf(err, "failed to set default")
		}
	}

	m.configFiles = m.discoverConfigFiles()
	if err := loadFiles(m.koanf, m.configFiles); err != nil {
		return err
	}

	if err := loadEnv(m.koanf, m.config.EnvPrefix); err != nil {
		return err
	}

	if err := m.loadCLIFlags(); err != nil {
		return oops.In("config").Wrapf(err, "failed to load CLI flags")
	}

	if m.config.Watch {
		m.startWatcher(ctx)
	}

	pipeline.Provide(ctx, m.provideKoanf)
	pipeline.Provide(ctx, m.provideReloadNotifier)

	return nil
}

func (m *Module) loadCLIFlags() error {
	if m.config.Args == nil {
		return nil
	}

	m.flagSet = pflag.NewFlagSet("settings", pflag.ContinueOnError)

	// Pre-populate flags from existing koanf keys so posflag can override them
	for _, key := range m.koanf.Keys() {
		switch v := m.koanf.Get(key).(type) {
		case string:
			m.flagSet.String(key, v, "")
		case int:
			m.flagSet.Int(key, v, "")
		case int64:
			m.flagSet.Int64(key, v, "")
		case float64:
			m.flagSet.Float64(key, v, "")
		case bool:
			m.flagSet.Bool(key, v, "")
		default:
			m.flagSet.String(key, "", "")
		}
	}

	if err := m.flagSet.Parse(m.config.Args); err != nil {
		return oops.Wrapf(err, "failed to parse CLI flags")
	}

	if err := m.koanf.Load(posflag.Provider(m.flagSet, ".", m.koanf), nil); err != nil {
		return oops.Wrapf(err, "failed to load CLI flags into koanf")
	}
	return nil
}

// Shutdown is a no-op; the watcher stops with the init context.
func (m *Module) Shutdown(_ context.Context) error {
	return nil
}

func (m *Module) provideKoanf(_ do.Injector) (*koanf.Koanf, error) {
	return m.Koanf(), nil
}

func (m *Module) provideReloadNotifier(_ do.Injector) (ReloadNotifier, error) { //nolint:ireturn
	return m, nil
}

// Koanf returns the current koanf instance.
func (m *Module) Koanf() *koanf.Koanf {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.koanf
}

// Files returns the settings files that were discovered during Init.
func (m *Module) Files() []string {
	paths := make([]string, 0, len(m.configFiles))
	for _, cf := range m.configFiles {
		paths = append(paths, cf.path)
	}
	return paths
}

// OnReload registers a callback invoked with the new koanf instance after a successful reload.
func (m *Module) OnReload(fn func(k *koanf.Koanf)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onReload = append(m.onReload, fn)
}

func (m *Module) reload() error {
	newKoanf := koanf.New(".")

	for key, value := range m.config.Defaults {
		if err := newKoanf.Set(key, value); err != nil {
			return oops.In("config").With("key", key).Wrapf(err, "failed to set default")
		}
	}

	if err := loadFiles(newKoanf, m.configFiles); err != nil {
		return err
	}

	if err := loadEnv(newKoanf, m.config.EnvPrefix); err != nil {
		return err
	}

	if m.flagSet != nil {
		if err := newKoanf.Load(posflag.Provider(m.flagSet, ".", newKoanf), nil); err != nil {
			return oops.In("config").Wrapf(err, "failed to reload CLI flags")
		}
	}

	m.mu.Lock()
	m.koanf = newKoanf
	callbacks := make([]func(k *koanf.Koanf), len(m.onReload))
	copy(callbacks, m.onReload)
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(newKoanf)
	}

	return nil
}
