package plugin

import (
	"slices"
	"sync"

	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Registry maps plugin names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Names returns the registered plugin names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Keys(r.factories)
	slices.Sort(names)
	return names
}

// Resolve creates one handle per name, in order. A name listed twice yields two handles.
func (r *Registry) Resolve(names []string) ([]Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]Plugin, 0, len(names))
	for _, name := range names {
		factory, ok := r.factories[name]
		if !ok {
			available := lo.Keys(r.factories)
			slices.Sort(available)
			return nil, oops.
				In("plugin").
				Code("unresolved_plugin").
				With("plugin", name).
				Wrap(&UnresolvedPluginError{Name: name, Available: available})
		}
		plugins = append(plugins, factory())
	}

	return plugins, nil
}
