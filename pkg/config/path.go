package config

import "fmt"

// Category constants for stage organization.
const (
	CategoryLogging  = "logging"
	CategoryDocument = "document"
	CategoryRender   = "render"
	CategoryTailwind = "tailwind"
	CategoryContent  = "content"
)

// DefaultInstanceName is the default instance name for stages.
const DefaultInstanceName = "default"

// ModulePath generates the settings path for a stage instance.
// Example: ModulePath("tailwind", "cli", "site") -> "modules.tailwind.cli.site"
func ModulePath(category, stageType, instance string) string {
	if instance == "" {
		instance = DefaultInstanceName
	}
	return fmt.Sprintf("modules.%s.%s.%s", category, stageType, instance)
}

// EnvVarName returns the environment variable overriding key under prefix.
// Example: EnvVarName("TAILCFG_", "modules.tailwind.cli.default.minify") -> "TAILCFG_MODULES_TAILWIND_CLI_DEFAULT_MINIFY"
func EnvVarName(prefix, key string) string {
	return prefix + toEnvKey(key)
}
