// Package plugin resolves the plugin names listed in a document to handles that can
// validate their themes and emit their build directive.
package plugin

import (
	"io"
)

// Plugin is a build-time style extension handle.
type Plugin interface {
	// Name returns the name the plugin is listed under in a document.
	Name() string

	// RegisterThemes hands the document's theme list to the plugin. Unknown theme
	// names fail with *UnrecognizedThemeError.
	RegisterThemes(themes []string) error

	// EmitStyles writes the plugin's directive for the CSS entry file.
	EmitStyles(w io.Writer) error
}

// Configurable is implemented by plugins that accept the options section named
// after them in the document.
type Configurable interface {
	Configure(options map[string]any) error
}

// Factory creates a fresh plugin handle.
type Factory func() Plugin

// Catalogue is implemented by plugins that can list the theme names they recognize.
type Catalogue interface {
	KnownThemes() []string
}
