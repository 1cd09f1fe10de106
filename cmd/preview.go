package main

import (
	"context"
	"fmt"
	"productbot/internal/announcer"
	"productbot/internal/config"
	"productbot/internal/finder"

	"github.com/spf13/cobra"
)

// previewCommand constructs the 'preview' subcommand that prints the post for
// a freshly found product without publishing it.
func previewCommand(ctx context.Context, cfg *config.Config) *cobra.Command {
	var keyword string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Finds a product and prints the post without publishing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, closeDeps := getDependencies(ctx, cfg)
			defer closeDeps()

			product := finder.New(deps.catalog, deps.finderOptions).Find(ctx, keyword)
			if product == nil {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no product found")

				return err
			}

			text := announcer.Compose(*product, deps.announcerOptions.Hashtags, deps.announcerOptions.MaxLength)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n(%d/%d)\n",
				text, announcer.Length(text), deps.announcerOptions.MaxLength)

			return err
		},
	}
	cmd.Flags().StringVarP(&keyword, "keyword", "k", Keyword, "Catalog search keyword")

	return cmd
}
