package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"palletbay/internal/config"
	"palletbay/internal/http/handlers"
	applog "palletbay/internal/log"
	"palletbay/internal/repos"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		applog.L().Error().Err(err).Msg("palletbay exited")
		os.Exit(1)
	}
}

// run owns every resource so deferred closes happen before the process
// exits, on success and on failure alike.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	closer, err := applog.Setup(applog.Options{
		Level:   cfg.LogLevel,
		Console: cfg.LogFormat == "console",
		File:    cfg.LogFile,
	})
	log := applog.L()
	if err != nil {
		log.Warn().Err(err).Str("file", cfg.LogFile).Msg("could not open log file")
	}
	defer closer.Close()

	log.Info().Str("env", cfg.Env).Str("driver", cfg.DBDriver).Msg("starting palletbay")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repos.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := repos.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	deps := handlers.NewDeps(db, cfg)
	created, err := deps.Auth.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		log.Info().Str("email", cfg.AdminEmail).Msg("admin account created")
	}

	if err := serve(ctx, handlers.NewApp(cfg, deps), ":"+cfg.Port); err != nil {
		return err
	}
	log.Info().Msg("palletbay stopped")
	return nil
}

// serve listens on addr until ctx is cancelled, then shuts the app down.
// A listener that fails to start is returned as an error right away.
func serve(ctx context.Context, app *fiber.App, addr string) error {
	errc := make(chan error, 1)
	go func() { errc <- app.Listen(addr) }()

	select {
	case err := <-errc:
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	applog.L().Info().Msg("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
