package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/platform/postgres"
	"github.com/phrazzld/taskman-api/internal/platform/sqlite"
	"github.com/phrazzld/taskman-api/internal/store"
)

const (
	driverPostgres = "postgres"
	driverSQLite   = "sqlite"
)

// stores bundles the persistence layer chosen by configuration.
type stores struct {
	users store.UserStore
	tasks store.TaskStore
	close func() error
}

// openStores connects to the configured database and returns its stores.
func openStores(ctx context.Context, cfg config.DatabaseConfig, l *slog.Logger) (*stores, error) {
	switch cfg.Driver {
	case driverPostgres:
		db, err := openPostgres(ctx, cfg, l)
		if err != nil {
			return nil, err
		}
		return &stores{
			users: postgres.NewPostgresUserStore(db, l),
			tasks: postgres.NewPostgresTaskStore(db, l),
			close: db.Close,
		}, nil

	case driverSQLite:
		db, err := sqlite.Open(cfg.URL)
		if err != nil {
			return nil, err
		}
		l.Info("SQLite database opened")
		return &stores{
			users: sqlite.NewUserStore(db, l),
			tasks: sqlite.NewTaskStore(db, l),
			close: func() error { return sqlite.Close(db) },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// openPostgres establishes a pgx-backed connection pool and verifies it.
func openPostgres(ctx context.Context, cfg config.DatabaseConfig, l *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	l.Info("Database connection established")
	return db, nil
}
