package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank/httpreceiver"
	"github.com/AntonStoeckl/ironbank-snapshot-go/bank/postgresengine"
	"github.com/AntonStoeckl/ironbank-snapshot-go/internal/config"
)

var _ httpreceiver.Repository = postgresengine.SnapshotStore{}

// openStore connects with the configured driver and returns the store plus a func that releases the connection.
func openStore(ctx context.Context, cfg config.ServerConfig, logger *slog.Logger) (postgresengine.SnapshotStore, func(), error) {
	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.TableName),
		postgresengine.WithLogger(logger),
	}

	switch cfg.DBDriver {
	case config.DriverPGX:
		return openPGXStore(ctx, cfg.DatabaseDSN, options...)
	case config.DriverSQL:
		return openSQLDBStore(ctx, cfg.DatabaseDSN, options...)
	case config.DriverSQLX:
		return openSQLXStore(ctx, cfg.DatabaseDSN, options...)
	default:
		return postgresengine.SnapshotStore{}, nil, cfg.DBDriver.Validate()
	}
}

func openPGXStore(ctx context.Context, dsn string, options ...postgresengine.Option) (postgresengine.SnapshotStore, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return postgresengine.SnapshotStore{}, nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return postgresengine.SnapshotStore{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := postgresengine.NewSnapshotStoreFromPGXPool(pool, options...)
	if err != nil {
		pool.Close()
		return postgresengine.SnapshotStore{}, nil, err
	}

	return store, pool.Close, nil
}

func openSQLDBStore(ctx context.Context, dsn string, options ...postgresengine.Option) (postgresengine.SnapshotStore, func(), error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return postgresengine.SnapshotStore{}, nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return postgresengine.SnapshotStore{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := postgresengine.NewSnapshotStoreFromSQLDB(db, options...)
	if err != nil {
		_ = db.Close()
		return postgresengine.SnapshotStore{}, nil, err
	}

	return store, func() { _ = db.Close() }, nil
}

func openSQLXStore(ctx context.Context, dsn string, options ...postgresengine.Option) (postgresengine.SnapshotStore, func(), error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return postgresengine.SnapshotStore{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store, err := postgresengine.NewSnapshotStoreFromSQLX(db, options...)
	if err != nil {
		_ = db.Close()
		return postgresengine.SnapshotStore{}, nil, err
	}

	return store, func() { _ = db.Close() }, nil
}
