package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/document"
	"github.com/Vilsol/tailcfg/pkg/logging/slog"
	"github.com/Vilsol/tailcfg/pkg/logging/tint"
	"github.com/Vilsol/tailcfg/pkg/pipeline"
	"github.com/Vilsol/tailcfg/pkg/plugin/builtin"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type globals struct {
	document   string
	configDirs []string
	logLevel   string
	noColor    bool
}

// flagKeys maps a command flag to the settings keys it overrides.
type flagKeys map[string][]string

var globalKeys = flagKeys{
	"document": {document.SettingsPath + ".path"},
	"log-level": {
		config.ModulePath(config.CategoryLogging, "tint", "") + ".level",
		config.ModulePath(config.CategoryLogging, "slog", "") + ".level",
	},
	"no-color": {config.ModulePath(config.CategoryLogging, "tint", "") + ".no_color"},
}

func rootCmd() *cobra.Command {
	g := &globals{}

	cmd := &cobra.Command{
		Use:   "tailcfg",
		Short: "Load, validate and build a Tailwind style document",
		Long: `tailcfg reads a Tailwind style document (JSON, YAML or TOML) with the
content globs, the sans font chain, the enabled plugins and the daisyUI themes.

It validates the document, renders the CSS entry file (and tailwind.config.js
for Tailwind v3) and runs the Tailwind standalone binary.

Settings are read from tailcfg.{yaml,yml,json,toml}, TAILCFG_* environment
variables and the flags below.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&g.document, "document", "tailwind.config.json", "Style document to load")
	cmd.PersistentFlags().StringSliceVar(&g.configDirs, "dir", []string{".", "./config", "/etc/tailcfg"}, "Directories searched for tailcfg settings files")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "Disable colored log output")

	cmd.AddCommand(
		buildCmd(g),
		checkCmd(g),
		renderCmd(g),
		themesCmd(),
	)

	return cmd
}

// overrides turns changed flags into settings defaults and matching CLI arguments,
// so explicit flags win over settings files and env vars.
func overrides(flags *pflag.FlagSet, keys flagKeys, defaults map[string]any) []string {
	var args []string
	for name, settingKeys := range keys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}

		for _, key := range settingKeys {
			if _, ok := defaults[key]; !ok {
				defaults[key] = typedDefault(f)
			}
			args = append(args, fmt.Sprintf("--%s=%s", key, f.Value.String()))
		}
	}
	return args
}

func typedDefault(f *pflag.Flag) any {
	switch f.Value.Type() {
	case "bool":
		v, _ := strconv.ParseBool(f.DefValue)
		return v
	default:
		return f.DefValue
	}
}

// run assembles the settings, logging and document stages in front of tail and runs them.
func run(ctx context.Context, cmd *cobra.Command, g *globals, keys flagKeys, watch bool, tail ...pipeline.Stage) error {
	defaults := document.DefaultSettings()

	var args []string
	args = append(args, overrides(cmd.Flags(), globalKeys, defaults)...)
	args = append(args, overrides(cmd.Flags(), keys, defaults)...)

	if watch {
		defaults[document.SettingsPath+".watch"] = true
	}

	stages := []pipeline.Stage{
		// Settings stage MUST be first
		config.NewModule(
			config.WithConfigDirs(g.configDirs...),
			config.WithDefaults(defaults),
			config.WithArgs(args),
			config.WithWatch(watch),
		),
		tint.NewModule(),
		slog.NewModule(),
		config.Bind[document.Settings](document.SettingsPath),
		document.NewModule(),
	}
	stages = append(stages, tail...)

	injector := do.New()
	do.ProvideValue(injector, builtin.Registry())

	return pipeline.New(stages...).WithInjector(injector).RunContext(ctx) //nolint:wrapcheck
}
