package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lmj0209/tool-website/internal/catalog"
	"github.com/lmj0209/tool-website/internal/catalog/source"
)

func newValidateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the catalog document and report problems",
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
			if cfg.Load.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.Load.Timeout)
				defer cancel()
			}

			doc, err := loader.Load(ctx)
			if err != nil {
				return err
			}
			if err := catalog.Validate(&doc); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			clean := catalog.Normalize(doc)
			if unknown := catalog.UnknownCategoryRefs(&clean); len(unknown) > 0 {
				fmt.Fprintf(out, "warning: tools with unknown categories: %s\n", strings.Join(unknown, ", "))
			}
			fmt.Fprintf(out, "ok: %d categories, %d tools (%s)\n", len(clean.Categories), len(clean.Tools), cfg.Data.Location)
			return nil
		},
	}
}
