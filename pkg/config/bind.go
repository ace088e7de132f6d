package config

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Vilsol/tailcfg/pkg/pipeline"
	"github.com/knadh/koanf/v2"
	"github.com/samber/do/v2"
	"github.com/samber/oops"
)

// Validatable is implemented by settings structs that need validation after unmarshalling.
type Validatable interface {
	Validate() error
}

// Binding is a thread-safe cached value that can be swapped on reload.
type Binding[T any] struct {
	cached   atomic.Pointer[T]
	mu       sync.Mutex
	onChange []func(*T)
}

// NewBinding returns a binding holding initial.
func NewBinding[T any](initial *T) *Binding[T] {
	b := &Binding[T]{}
	b.cached.Store(initial)
	return b
}

// Get returns the cached value.
func (b *Binding[T]) Get() *T {
	return b.cached.Load()
}

// OnChange registers a callback invoked with the new value after each Set.
func (b *Binding[T]) OnChange(fn func(*T)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = append(b.onChange, fn)
}

// Set stores value and runs the OnChange callbacks in registration order.
func (b *Binding[T]) Set(value *T) {
	b.cached.Store(value)

	b.mu.Lock()
	callbacks := make([]func(*T), len(b.onChange))
	copy(callbacks, b.onChange)
	b.mu.Unlock()

	for _, fn := range callbacks {
		fn(value)
	}
}

type bindModule[T any] struct {
	path    string
	binding *Binding[T]
}

// Bind creates a stage that binds a settings struct to a koanf path and registers
// it in DI as *Binding[T]. Path segments are joined with "." (e.g. "document", "watch" -> "document.watch").
func Bind[T any](pathSegments ...string) *bindModule[T] { //nolint:revive
	return &bindModule[T]{
		path: strings.Join(pathSegments, "."),
	}
}

func unmarshalAndValidate[T any](k *koanf.Koanf, path string) (*T, error) {
	cfg := new(T)
	if err := k.Unmarshal(path, cfg); err != nil {
		return nil, oops.In("config").Wrapf(err, "failed to unmarshal settings at path %q", path)
	}

	if v, ok := any(cfg).(Validatable); ok {
		if err := v.Validate(); err != nil {
			return nil, oops.In("config").Wrapf(err, "settings validation failed at path %q", path)
		}
	}

	return cfg, nil
}

func (m *bindModule[T]) Init(ctx context.Context) error {
	injector := pipeline.GetInjector(ctx)

	k, err := do.Invoke[*koanf.Koanf](injector)
	if err != nil {
		return oops.In("config").Wrapf(err, "failed to retrieve koanf instance")
	}

	cfg, err := unmarshalAndValidate[T](k, m.path)
	if err != nil {
		return err
	}

	m.binding = NewBinding(cfg)

	pipeline.Provide(ctx, func(_ do.Injector) (*Binding[T], error) {
		return m.binding, nil
	})

	if notifier, err := do.Invoke[ReloadNotifier](injector); err == nil {
		notifier.OnReload(func(k *koanf.Koanf) {
			_ = m.LoadConfig(k)
		})
	}

	return nil
}

func (m *bindModule[T]) Shutdown(_ context.Context) error {
	return nil
}

func (m *bindModule[T]) ConfigPath() string {
	return m.path
}

// LoadConfig re-reads the bound path and keeps the previous value when it fails.
func (m *bindModule[T]) LoadConfig(k *koanf.Koanf) error {
	cfg, err := unmarshalAndValidate[T](k, m.path)
	if err != nil {
		return err
	}

	m.binding.Set(cfg)

	return nil
}

// Get returns the cached settings value from DI.
func Get[T any](ctx context.Context) *T {
	return do.MustInvoke[*Binding[T]](pipeline.GetInjector(ctx)).Get()
}

// GetBinding returns the Binding for advanced use (OnChange callbacks).
func GetBinding[T any](ctx context.Context) *Binding[T] {
	return do.MustInvoke[*Binding[T]](pipeline.GetInjector(ctx))
}
