package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axionhelmets/storefront-server/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the catalog with the Axion helmet line-up",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		// Seeding only touches the product store; image storage is not needed.
		catalog := service.NewCatalog(a.stores.Products, nil, a.logger)

		seeded, err := catalog.Seed(cmd.Context(), service.SeedProducts())
		if err != nil {
			return fmt.Errorf("failed to seed catalog: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d products\n", len(seeded))
		return nil
	},
}
