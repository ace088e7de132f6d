package document

import (
	"slices"

	"github.com/knadh/koanf/maps"
)

// Field names a document field by its dotted path.
type Field string

const (
	FieldContent Field = "content"
	FieldSans    Field = "theme.extend.fontFamily.sans"
	FieldPlugins Field = "plugins"
	FieldThemes  Field = "daisyui.themes"
)

// Fields lists every required field in document order.
var Fields = []Field{FieldContent, FieldSans, FieldPlugins, FieldThemes}

// Document is a loaded, validated style-build document. It is never mutated after
// Load returns; every accessor hands out a copy.
type Document struct {
	path string

	content []string
	sans    []string
	plugins []string
	themes  []string

	// fontFamilies holds the fontFamily roles other than sans.
	fontFamilies map[string]any

	// extend holds theme.extend keys other than fontFamily.
	extend map[string]any

	// sections holds top-level sections keyed by plugin name.
	sections map[string]map[string]any
}

// Path returns the file the document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Get returns the value of field unchanged. Unknown fields yield nil.
func (d *Document) Get(field Field) []string {
	switch field {
	case FieldContent:
		return d.Content()
	case FieldSans:
		return d.Sans()
	case FieldPlugins:
		return d.Plugins()
	case FieldThemes:
		return d.Themes()
	default:
		return nil
	}
}

// Content returns the content-scan glob patterns.
func (d *Document) Content() []string {
	return slices.Clone(d.content)
}

// Sans returns the sans fallback chain, custom font first.
func (d *Document) Sans() []string {
	return slices.Clone(d.sans)
}

// Plugins returns the plugin names in activation order.
func (d *Document) Plugins() []string {
	return slices.Clone(d.plugins)
}

// Themes returns the component-library theme names in precedence order.
func (d *Document) Themes() []string {
	return slices.Clone(d.themes)
}

// FontFamilies returns the fontFamily roles other than sans.
func (d *Document) FontFamilies() map[string]any {
	return maps.Copy(d.fontFamilies)
}

// Extend returns the theme.extend keys other than fontFamily.
func (d *Document) Extend() map[string]any {
	return maps.Copy(d.extend)
}

// PluginOptions returns the top-level section named after plugin, or nil.
func (d *Document) PluginOptions(plugin string) map[string]any {
	section, ok := d.sections[plugin]
	if !ok {
		return nil
	}
	return maps.Copy(section)
}
