package main

import (
	"github.com/Vilsol/tailcfg/pkg/config"
	"github.com/Vilsol/tailcfg/pkg/content"
	"github.com/Vilsol/tailcfg/pkg/render"
	"github.com/spf13/cobra"
)

func checkCmd(g *globals) *cobra.Command {
	keys := flagKeys{
		"strict": {config.ModulePath(config.CategoryContent, "scan", "") + ".strict"},
	}

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate the style document without writing anything",
		Long: `Load the style document, resolve and activate its plugins, render the
artefacts in memory and scan the content globs. Patterns matching no file are
reported; with --strict they fail the check.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd, g, keys, false,
				render.NewModule(render.WithDryRun(true)),
				content.NewModule(),
			)
		},
	}

	cmd.Flags().Bool("strict", false, "Fail when a content pattern matches no file")

	return cmd
}
