// Package config opens PostgreSQL connections for the snapshot store integration tests.
//
// Every supported adapter (pgx.Pool, sql.DB, sqlx.DB) gets a factory that connects to
// the database named by IRONBANK_TEST_POSTGRES_DSN. When the variable is unset the
// factories skip the calling test, so the unit test run needs no database.
package config
