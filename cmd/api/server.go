package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"inventory-backend/pkg/container"
	"inventory-backend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// runServer starts the HTTP server and blocks until SIGINT/SIGTERM, then
// drains in-flight requests before returning.
func runServer(c *container.Container) error {
	router := setupRouter(c)

	srv := &http.Server{
		Addr:              c.Config.App.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", map[string]interface{}{
			"addr": c.Config.App.ListenAddr,
			"env":  c.Config.App.Environment,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("shutting down", map[string]interface{}{"signal": sig.String()})
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("server stopped", nil)
	return nil
}
