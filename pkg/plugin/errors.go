package plugin

import (
	"fmt"
	"strings"
)

// UnresolvedPluginError reports a plugin name no factory is registered for.
type UnresolvedPluginError struct {
	Name      string
	Available []string
}

func (e *UnresolvedPluginError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("plugin %q cannot be resolved: no plugins are registered", e.Name)
	}
	return fmt.Sprintf("plugin %q cannot be resolved (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// UnrecognizedThemeError reports a theme name the plugin does not know.
type UnrecognizedThemeError struct {
	Plugin string
	Theme  string
}

func (e *UnrecognizedThemeError) Error() string {
	return fmt.Sprintf("plugin %q does not recognize theme %q", e.Plugin, e.Theme)
}
