package main

import (
	"fmt"
	"strings"

	"github.com/Vilsol/tailcfg/pkg/plugin"
	"github.com/Vilsol/tailcfg/pkg/plugin/builtin"
	"github.com/spf13/cobra"
)

func themesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes [plugin]",
		Short: "List the known plugins and their theme catalogues",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := builtin.Registry()

			names := registry.Names()
			if len(args) == 1 {
				names = args
			}

			plugins, err := registry.Resolve(names)
			if err != nil {
				return err //nolint:wrapcheck
			}

			out := cmd.OutOrStdout()
			for _, p := range plugins {
				catalogue, ok := p.(plugin.Catalogue)
				if !ok {
					fmt.Fprintf(out, "%s\n", p.Name())
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", p.Name(), strings.Join(catalogue.KnownThemes(), ", "))
			}

			return nil
		},
	}
}
