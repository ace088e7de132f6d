package main

import (
	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/content"
	"github.com/Vilsol/tailcfg/pkg/render"
	"github.com/Vilsol/tailcfg/pkg/tailwind"
	"github.com/spf13/cobra"
)

func buildCmd(g *globals) *cobra.Command {
	var watch bool

	tailwindPath := config.ModulePath(config.CategoryTailwind, "cli", "")
	keys := flagKeys{
		"minify":           {tailwindPath + ".minify"},
		"output":           {tailwindPath + ".output"},
		"tailwind-version": {tailwindPath + ".version"},
		"format":           {config.ModulePath(config.CategoryRender, "files", "") + ".format"},
	}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render the artefacts and build the stylesheet",
		Long: `Load and validate the style document, render the CSS entry file and run
the Tailwind standalone binary once. The binary is downloaded on first use.

With --watch the document and settings files are watched, artefacts are
rendered again on change and Tailwind keeps rebuilding until interrupted.

Examples:
  tailcfg build
  tailcfg build --minify --output=dist/site.css
  tailcfg build --watch --document=tailwind.config.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, g, keys, watch,
				render.NewModule(),
				content.NewModule(),
				tailwind.NewModule(tailwind.WithWatch(watch)),
			)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Rebuild on changes until interrupted")
	cmd.Flags().Bool("minify", false, "Minify the stylesheet")
	cmd.Flags().String("output", "static/css/output.css", "Stylesheet output path")
	cmd.Flags().String("tailwind-version", tailwind.DefaultVersion, "Tailwind CSS release to use")
	cmd.Flags().String("format", string(render.FormatV4), "Artefact format (v4, v3)")

	return cmd
}
