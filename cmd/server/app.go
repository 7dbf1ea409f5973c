package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskman-api/internal/cache"
	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/service"
	"github.com/phrazzld/taskman-api/internal/service/auth"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	stores      *stores
	resultCache cache.ResultCache
	closeCache  func() error

	jwtService  auth.JWTService
	authService auth.AuthService
	taskService service.TaskService
}

// newApplication connects the configured database and cache and builds the
// services on top of them. Resources opened before a failure are released.
func newApplication(ctx context.Context, cfg *config.Config, l *slog.Logger) (_ *application, err error) {
	app := &application{config: cfg, logger: l}
	defer func() {
		if err != nil {
			_ = app.close()
		}
	}()

	app.stores, err = openStores(ctx, cfg.Database, l)
	if err != nil {
		return nil, fmt.Errorf("failed to open stores: %w", err)
	}

	app.resultCache, app.closeCache, err = openCache(ctx, cfg.Cache, l)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	l.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.authService, err = auth.NewAuthService(app.stores.users, hasher, hasher, app.jwtService, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}

	app.taskService, err = service.NewTaskService(app.stores.tasks, app.resultCache, service.TaskServiceOptions{
		CacheTTL:     time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
		KeyByFilters: cfg.Cache.KeyByFilters,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	l.Info("Application initialized successfully")
	return app, nil
}

// close releases the cache and database connections.
func (app *application) close() error {
	var errs []error
	if app.closeCache != nil {
		if err := app.closeCache(); err != nil {
			app.logger.Error("Error closing cache", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if app.stores != nil {
		if err := app.stores.close(); err != nil {
			app.logger.Error("Error closing database connection", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
