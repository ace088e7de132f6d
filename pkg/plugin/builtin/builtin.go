// Package builtin assembles the plugin registry tailcfg ships with.
package builtin

import (
	"github.com/Vilsol/tailcfg/pkg/plugin"
	"github.com/Vilsol/tailcfg/pkg/plugin/daisyui"
)

// Directives are official Tailwind plugins that only need an @plugin line.
var Directives = []string{
	"@tailwindcss/typography",
	"@tailwindcss/forms",
	"@tailwindcss/aspect-ratio",
	"@tailwindcss/container-queries",
}

// Registry returns a registry holding daisyUI and the official directive plugins.
func Registry() *plugin.Registry {
	r := plugin.NewRegistry()
	daisyui.Register(r)
	for _, name := range Directives {
		r.Register(name, plugin.NewDirective(name))
	}
	return r
}
