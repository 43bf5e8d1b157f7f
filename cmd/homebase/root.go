package main

import (
	"github.com/spf13/cobra"

	"github.com/dukerupert/homebase/internal/config"
	"github.com/dukerupert/homebase/internal/logging"
)

// Global flags available to all subcommands.
var envFile string

// NewRootCmd creates the root command for the HomeBase CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "homebase",
		Short: "HomeBase - household expense tracking API",
		Long: `HomeBase is the backend of the household expense tracker. It serves
registration, login and session endpoints over a SQLite database.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional .env file loaded before reading the environment")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())

	return cmd
}

// loadConfig reads the configuration and sets up the default logger.
// JWT_SECRET is only required when needSecret is set.
func loadConfig(cmd *cobra.Command, needSecret bool) (*config.Config, error) {
	load := config.LoadNoSecret
	if needSecret {
		load = config.Load
	}
	cfg, err := load(envFile)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	return cfg, nil
}
