package postgresengine

import "errors"

var (
	// ErrNilDatabaseConnection is returned when a nil database connection is supplied.
	ErrNilDatabaseConnection = errors.New("nil database connection supplied")

	// ErrEmptyTableName is returned when an empty table name is supplied.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrQualifiedTableName is returned when the table name contains a schema qualifier.
	ErrQualifiedTableName = errors.New("table name must not be schema qualified")

	// ErrUnexpectedRowsAffected is returned when an insert did not write exactly one row.
	ErrUnexpectedRowsAffected = errors.New("unexpected number of rows affected")

	// ErrEmptyPlayerName is returned when loading without a player name.
	ErrEmptyPlayerName = errors.New("empty player name supplied")

	// ErrBuildingQueryFailed is returned when a query cannot be built.
	ErrBuildingQueryFailed = errors.New("building query failed")

	// ErrCreatingTableFailed is returned when the snapshot table cannot be created.
	ErrCreatingTableFailed = errors.New("creating snapshot table failed")

	// ErrSavingSnapshotFailed is returned when the snapshot insert fails.
	ErrSavingSnapshotFailed = errors.New("saving snapshot failed")

	// ErrLoadingSnapshotFailed is returned when the snapshot query fails.
	ErrLoadingSnapshotFailed = errors.New("loading snapshot failed")

	// ErrScanningDBRowFailed is returned when a result row cannot be scanned.
	ErrScanningDBRowFailed = errors.New("scanning db row failed")
)
