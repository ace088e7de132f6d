package plugin

import (
	"github.com/samber/oops"
)

// Source is what Activate needs from a document.
type Source interface {
	Themes() []string
	PluginOptions(plugin string) map[string]any
}

// Activate configures every plugin with its options section and registers the
// document's themes on it. The first error aborts activation unchanged.
func Activate(src Source, plugins []Plugin) error {
	themes := src.Themes()

	for _, p := range plugins {
		if c, ok := p.(Configurable); ok {
			if err := c.Configure(src.PluginOptions(p.Name())); err != nil {
				return oops.In("plugin").With("plugin", p.Name()).Wrapf(err, "failed to configure plugin %s", p.Name())
			}
		}

		if err := p.RegisterThemes(themes); err != nil {
			return err //nolint:wrapcheck
		}
	}

	return nil
}
