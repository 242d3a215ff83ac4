package config

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/lib/pq" // postgres driver
	"github.com/stretchr/testify/require"
)

// PostgresSQLDB opens a *sql.DB on the test database through lib/pq and closes it on cleanup.
func PostgresSQLDB(t testing.TB) *sql.DB {
	t.Helper()

	const defaultMaxOpenConnections = 4

	db, err := sql.Open("postgres", PostgresTestDSN(t))
	require.NoError(t, err, "open database connection")
	t.Cleanup(func() { _ = db.Close() })

	db.SetMaxOpenConns(defaultMaxOpenConnections)
	require.NoError(t, db.PingContext(context.Background()), "ping test database")

	return db
}
