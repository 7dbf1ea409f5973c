package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

// Run serves the API until SIGINT or SIGTERM, then drains in-flight
// requests and releases resources. It returns the process exit code.
func (app *application) Run(ctx context.Context) int {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.setupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", server.Addr)
	if err != nil {
		app.logger.Error("Failed to listen", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		_ = app.close()
		return 1
	}

	return app.serve(ctx, server, listener)
}

// serve runs server on listener. A signal triggers graceful shutdown; a
// Serve failure releases resources and returns 1 without waiting for one.
func (app *application) serve(ctx context.Context, server *http.Server, listener net.Listener) int {
	serveErr := make(chan error, 1)
	go func() {
		app.logger.Info("Starting server", slog.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	var (
		once        sync.Once
		shutdownErr error
	)
	shutdown := func(ctx context.Context) error {
		once.Do(func() {
			app.logger.Info("Shutting down server...")
			if err := server.Shutdown(ctx); err != nil {
				app.logger.Error("Server shutdown failed", slog.String("error", err.Error()))
				_ = app.close()
				shutdownErr = fmt.Errorf("server shutdown failed: %w", err)
				return
			}
			shutdownErr = app.close()
		})
		return shutdownErr
	}

	timeout := time.Duration(app.config.Server.ShutdownTimeoutSeconds) * time.Second
	wait := gfshutdown.GracefulShutdown(ctx, timeout, map[string]gfshutdown.Operation{
		"taskman-api": shutdown,
	})

	select {
	case exitCode := <-wait:
		app.logger.Info("Server shutdown completed", slog.Int("exit_code", exitCode))
		return exitCode
	case err := <-serveErr:
		app.logger.Error("Server failed", slog.String("error", err.Error()))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = shutdown(shutdownCtx)
		return 1
	}
}
