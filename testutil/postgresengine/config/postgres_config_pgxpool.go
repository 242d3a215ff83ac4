package config

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// PostgresPGXPool connects a small pgx pool to the test database and closes it on cleanup.
func PostgresPGXPool(t testing.TB) *pgxpool.Pool {
	t.Helper()

	const defaultMaxConnections = int32(4)
	const defaultConnectTimeout = time.Second * 5

	dbConfig, err := pgxpool.ParseConfig(PostgresTestDSN(t))
	require.NoError(t, err, "parse pgx pool config")

	dbConfig.MaxConns = defaultMaxConnections
	dbConfig.ConnConfig.ConnectTimeout = defaultConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	require.NoError(t, err, "create pgx pool")
	t.Cleanup(pool.Close)

	require.NoError(t, pool.Ping(context.Background()), "ping test database")

	return pool
}
