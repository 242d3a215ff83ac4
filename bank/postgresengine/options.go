package postgresengine

import (
	"errors"
	"fmt"
	"strings"
)

// Logger interface for SQL query logging, operational metrics, warnings, and error reporting.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Option defines a functional option for configuring SnapshotStore.
type Option func(*SnapshotStore) error

// WithTableName sets the table name for the SnapshotStore.
// The name is a single unqualified identifier, the table lives in the connection's search_path.
func WithTableName(tableName string) Option {
	return func(s *SnapshotStore) error {
		if tableName == "" {
			return ErrEmptyTableName
		}

		if strings.Contains(tableName, ".") {
			return errors.Join(ErrQualifiedTableName, fmt.Errorf("table name %q", tableName))
		}

		s.tableName = tableName

		return nil
	}
}

// WithLogger sets the logger for the SnapshotStore.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL queries with execution timing (development use)
// Info level: Saved snapshots with item counts and durations (production-safe)
// Warn level: Non-critical issues like cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(s *SnapshotStore) error {
		s.logger = logger
		return nil
	}
}
