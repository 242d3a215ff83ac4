package config

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// PostgresSQLX opens a *sqlx.DB on the test database and closes it on cleanup.
func PostgresSQLX(t testing.TB) *sqlx.DB {
	t.Helper()

	const defaultMaxOpenConnections = 4

	db, err := sqlx.Open("postgres", PostgresTestDSN(t))
	require.NoError(t, err, "open database connection")
	t.Cleanup(func() { _ = db.Close() })

	db.SetMaxOpenConns(defaultMaxOpenConnections)
	require.NoError(t, db.PingContext(context.Background()), "ping test database")

	return db
}
