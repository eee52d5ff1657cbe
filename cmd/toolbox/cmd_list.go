package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/lmj0209/tool-website/internal/catalog/source"
	"github.com/lmj0209/tool-website/internal/state"
	"github.com/lmj0209/tool-website/internal/termview"
)

func newListCmd(load configLoader) *cobra.Command {
	var category, query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the tools matching a category and search text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			loader, err := source.New(cfg.Data.Location, source.Options{})
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			app := state.New(state.Options{Logger: cliLogger(cfg), Timeout: cfg.Load.Timeout})
			snap, err := app.Load(ctx, loader)
			if err != nil {
				return err
			}

			sess := state.NewSession().SelectCategory(category).ChangeSearch(query)
			return termview.Render(cmd.OutOrStdout(), snap.Catalog, sess)
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category id (default all)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "case-insensitive text to find in names and descriptions")
	return cmd
}
