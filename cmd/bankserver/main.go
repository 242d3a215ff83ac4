// Command bankserver receives bank snapshots over HTTP and stores them in PostgreSQL.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank/httpreceiver"
	"github.com/AntonStoeckl/ironbank-snapshot-go/internal/config"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		config.Exitf("bankserver: %v", err)
	}

	logger := config.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("bankserver stopped", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.ServerConfig, logger *slog.Logger) error {
	store, closeDB, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeDB()

	if err := store.CreateTable(ctx); err != nil {
		return fmt.Errorf("prepare schema: %w", err)
	}

	mux, err := newMux(store, logger)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("bankserver listening", "addr", cfg.ListenAddr, "driver", string(cfg.DBDriver), "table", store.TableName())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("bankserver stopped")

	return nil
}

func newMux(repo httpreceiver.Repository, logger *slog.Logger) (*http.ServeMux, error) {
	handler, err := httpreceiver.NewHandler(repo, httpreceiver.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create handler: %w", err)
	}

	mux := http.NewServeMux()
	handler.Routes(mux)

	return mux, nil
}
