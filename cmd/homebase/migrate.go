package main

import (
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/dukerupert/homebase/internal/database"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending migrations to the SQLite database named by DATABASE_URL.`,
		RunE:  runMigrate,
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}

	// Open applies pending migrations.
	db, err := database.Open(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return oops.With("operation", "migrate").With("database", cfg.DatabaseURL).Wrap(err)
	}
	defer db.Close()

	version, err := database.Version(db)
	if err != nil {
		return oops.With("operation", "read schema version").Wrap(err)
	}

	cmd.Printf("Database %s is at schema version %d\n", cfg.DatabaseURL, version)
	return nil
}
