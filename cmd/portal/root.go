package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/memberportal/internal/config"
	_ "github.com/JonMunkholm/memberportal/internal/core/forms" // Register OC, AC and IC forms
	"github.com/JonMunkholm/memberportal/internal/database"
	"github.com/JonMunkholm/memberportal/internal/logging"
)

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "portal",
		Short:         "Industrial federation member portal",
		Long:          "Runs the membership application, member directory and guest-message dashboard server.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewMigrateCommand())
	cmd.AddCommand(NewPurgeDraftsCommand())
	cmd.AddCommand(NewHashPasswordCommand())

	return cmd
}

// loadConfig reads .env, loads and validates the configuration and sets up
// logging.
func loadConfig() (*config.Config, error) {
	// Overload overwrites existing env vars
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

// openStore connects to PostgreSQL. Callers must close the returned pool.
func openStore(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, *database.Store, error) {
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return pool, database.New(pool), nil
}
