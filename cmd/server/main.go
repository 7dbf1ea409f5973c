// Package main implements the entry point for the task management API
// server. It loads configuration, wires stores, cache and services, and
// serves the HTTP API until it receives a shutdown signal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/platform/logger"
	"github.com/phrazzld/taskman-api/internal/platform/postgres"
)

func main() {
	migrateCmd := flag.String("migrate", "", "Run a database migration command (up|down|status|version) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	l.Info("Server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("database_driver", cfg.Database.Driver),
		slog.String("cache_driver", cfg.Cache.Driver))

	ctx := context.Background()

	if *migrateCmd != "" {
		if err := runMigrations(ctx, cfg, *migrateCmd, l); err != nil {
			l.Error("Migration failed", slog.String("command", *migrateCmd), slog.String("error", err.Error()))
			os.Exit(1)
		}
		return
	}

	app, err := newApplication(ctx, cfg, l)
	if err != nil {
		l.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	os.Exit(app.Run(ctx))
}

// runMigrations applies a goose command to the configured Postgres
// database. SQLite schemas are migrated on open, so the flag only applies
// to Postgres.
func runMigrations(ctx context.Context, cfg *config.Config, command string, l *slog.Logger) error {
	if cfg.Database.Driver != driverPostgres {
		return fmt.Errorf("migrations are only supported for the %s driver", driverPostgres)
	}

	db, err := openPostgres(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	l.Info("Executing migrations", slog.String("command", command))
	return postgres.RunMigrations(ctx, db, command)
}
