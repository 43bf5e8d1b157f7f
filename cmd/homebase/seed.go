package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/dukerupert/homebase/internal/database"
	"github.com/dukerupert/homebase/internal/model"
	"github.com/dukerupert/homebase/internal/store"
)

const demoHousehold = "Demo Family"

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create a demo household with the default categories",
		RunE:  runSeed,
	}
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}

	db, err := database.Open(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return oops.With("operation", "open database").Wrap(err)
	}
	defer db.Close()

	h, err := store.NewCategoryStore(db).SeedHousehold(cmd.Context(), demoHousehold, model.DefaultCurrency)
	if err != nil {
		return oops.With("operation", "seed").Wrap(err)
	}

	cmd.Printf("Created household %q (%s) with %d categories\n", h.Name, h.ID, len(store.DefaultCategories))
	return nil
}
