package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/memberportal/internal/cache"
	"github.com/JonMunkholm/memberportal/internal/config"
	"github.com/JonMunkholm/memberportal/internal/core"
	"github.com/JonMunkholm/memberportal/internal/database"
	"github.com/JonMunkholm/memberportal/internal/web"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server together with the maintenance scheduler.

Lookups are cached in Redis when REDIS_URL is set and reachable, otherwise in
process. On SIGINT or SIGTERM the server waits for logo uploads in progress
before shutting down.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runServe(commandContext(cmd), cfg, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply the database schema before starting")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, migrate bool) error {
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"db_max_conns", cfg.Database.MaxConns,
		"logo_max_concurrent", cfg.Upload.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
		"redis", cfg.Cache.Enabled(),
	)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if migrate {
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	lookupCache, closeCache := cache.Open(ctx, cfg.Cache)
	defer closeCache()

	service := core.NewService(store, lookupCache, core.OptionsFromConfig(cfg))
	slog.Info("forms registered", "types", core.Types())

	server := web.NewServer(service, cfg)

	// Background jobs stop with the signal context
	go service.StartMaintenanceScheduler(ctx, cfg.Draft.PurgeInterval)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Wait for active uploads to complete (with timeout)
	if status := service.Uploads().Status(); status.Active > 0 {
		slog.Info("waiting for logo uploads to complete", "active", status.Active)
		if err := service.Uploads().WaitForDrain(shutdownCtx); err != nil {
			slog.Warn("uploads did not complete in time", "error", err)
		} else {
			slog.Info("all uploads completed")
		}
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return err
	}
	slog.Info("server stopped")
	return nil
}
