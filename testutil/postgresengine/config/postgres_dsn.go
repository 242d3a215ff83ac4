package config

import (
	"os"
	"testing"
)

// DSNEnvVar names the environment variable holding the integration test database DSN.
const DSNEnvVar = "IRONBANK_TEST_POSTGRES_DSN"

// PostgresTestDSN returns the DSN for the test database, or skips the test when none is configured.
func PostgresTestDSN(t testing.TB) string {
	t.Helper()

	dsn := os.Getenv(DSNEnvVar)
	if dsn == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", DSNEnvVar)
	}

	return dsn
}
