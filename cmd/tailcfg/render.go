package main

import (
	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/render"
	"github.com/spf13/cobra"
)

func renderCmd(g *globals) *cobra.Command {
	renderPath := config.ModulePath(config.CategoryRender, "files", "")
	keys := flagKeys{
		"format":    {renderPath + ".format"},
		"input":     {renderPath + ".input"},
		"config-js": {renderPath + ".config_js"},
	}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write the CSS entry file and tailwind.config.js only",
		Long: `Load and validate the style document and write the files the Tailwind
binary reads, without running it. Use this when Tailwind is run by other tooling.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, g, keys, false, render.NewModule())
		},
	}

	defaults := render.NewDefaultConfig()
	cmd.Flags().String("format", string(defaults.Format), "Artefact format (v4, v3)")
	cmd.Flags().String("input", defaults.Input, "CSS entry file path")
	cmd.Flags().String("config-js", defaults.ConfigJS, "tailwind.config.js path")

	return cmd
}
