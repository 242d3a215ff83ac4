package postgresengine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // driver import
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	jsoniter "github.com/json-iterator/go"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
	"github.com/AntonStoeckl/ironbank-snapshot-go/bank/postgresengine/internal/adapters"
)

const (
	defaultTableName             = "bank_snapshots"
	logMsgBuildSelectQueryFailed = "failed to build select query"
	logMsgBuildInsertQueryFailed = "failed to build insert query"
	logMsgDBQueryFailed          = "database query execution failed"
	logMsgDBExecFailed           = "database execution failed"
	logMsgCloseRowsFailed        = "failed to close database rows"
	logMsgScanRowFailed          = "failed to scan database row"
	logMsgSnapshotSaved          = "snapshot saved"
	logMsgSnapshotLoaded         = "snapshot loaded"
	logMsgTableCreated           = "snapshot table ensured"
	logMsgSQLExecuted            = "executed sql for: "
	logMsgOperation              = "snapshot store operation: "
	logAttrError                 = "error"
	logAttrQuery                 = "query"
	logAttrPlayerName            = "player_name"
	logAttrSnapshotID            = "snapshot_id"
	logAttrItemCount             = "item_count"
	logAttrDurationMS            = "duration_ms"
	logActionQuery               = "query"
	logActionInsert              = "insert"
	logActionCreateTable         = "create table"
	colSnapshotID                = "snapshot_id"
	colPlayerName                = "player_name"
	colBankItems                 = "bank_items"
	colTakenAt                   = "taken_at"
	dialectPostgres              = "postgres"
	castUUID                     = "?::uuid"
	castJsonb                    = "?::jsonb"
	castText                     = "TEXT"
	indexSuffix                  = "_player_taken_at_idx"
)

type sqlQueryString = string

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// SnapshotStore persists bank snapshots in PostgreSQL, one row per received snapshot.
type SnapshotStore struct {
	db        adapters.DBAdapter
	tableName string
	logger    Logger
	newID     func() (uuid.UUID, error)
}

// NewSnapshotStoreFromPGXPool creates a new SnapshotStore using a pgx Pool with optional configuration.
func NewSnapshotStoreFromPGXPool(db *pgxpool.Pool, options ...Option) (SnapshotStore, error) {
	if db == nil {
		return SnapshotStore{}, ErrNilDatabaseConnection
	}

	return newSnapshotStore(adapters.NewPGXAdapter(db), options...)
}

// NewSnapshotStoreFromSQLDB creates a new SnapshotStore using a sql.DB with optional configuration.
func NewSnapshotStoreFromSQLDB(db *sql.DB, options ...Option) (SnapshotStore, error) {
	if db == nil {
		return SnapshotStore{}, ErrNilDatabaseConnection
	}

	return newSnapshotStore(adapters.NewSQLAdapter(db), options...)
}

// NewSnapshotStoreFromSQLX creates a new SnapshotStore using a sqlx.DB with optional configuration.
func NewSnapshotStoreFromSQLX(db *sqlx.DB, options ...Option) (SnapshotStore, error) {
	if db == nil {
		return SnapshotStore{}, ErrNilDatabaseConnection
	}

	return newSnapshotStore(adapters.NewSQLXAdapter(db), options...)
}

func newSnapshotStore(db adapters.DBAdapter, options ...Option) (SnapshotStore, error) {
	s := SnapshotStore{
		db:        db,
		tableName: defaultTableName,
		newID:     uuid.NewV7,
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return SnapshotStore{}, err
		}
	}

	return s, nil
}

// TableName returns the table the store reads and writes.
func (s SnapshotStore) TableName() string {
	return s.tableName
}

// CreateTable creates the snapshot table and its lookup index if they do not exist yet.
func (s SnapshotStore) CreateTable(ctx context.Context) error {
	for _, statement := range s.buildCreateTableStatements() {
		start := time.Now()
		_, execErr := s.db.Exec(ctx, statement)
		s.logQueryWithDuration(statement, logActionCreateTable, time.Since(start))

		if execErr != nil {
			if s.logger != nil {
				s.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, statement)
			}

			return errors.Join(ErrCreatingTableFailed, execErr)
		}
	}

	s.logOperation(logMsgTableCreated)

	return nil
}

// Save appends the snapshot and returns the id assigned to it.
func (s SnapshotStore) Save(ctx context.Context, snapshot bank.Snapshot) (uuid.UUID, error) {
	if err := snapshot.Validate(); err != nil {
		return uuid.Nil, err
	}

	snapshotID, idErr := s.newID()
	if idErr != nil {
		return uuid.Nil, errors.Join(ErrSavingSnapshotFailed, idErr)
	}

	sqlQuery, buildErr := s.buildInsertQuery(snapshotID, snapshot)
	if buildErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildInsertQueryFailed, logAttrError, buildErr.Error())
		}

		return uuid.Nil, buildErr
	}

	start := time.Now()
	result, execErr := s.db.Exec(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, logActionInsert, duration)

	if execErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgDBExecFailed, logAttrError, execErr.Error(), logAttrQuery, sqlQuery)
		}

		return uuid.Nil, errors.Join(ErrSavingSnapshotFailed, execErr)
	}

	rowsAffected, rowsErr := result.RowsAffected()
	if rowsErr != nil {
		return uuid.Nil, errors.Join(ErrSavingSnapshotFailed, rowsErr)
	}

	if rowsAffected != 1 {
		return uuid.Nil, errors.Join(
			ErrSavingSnapshotFailed,
			ErrUnexpectedRowsAffected,
			fmt.Errorf("expected 1 row, got %d", rowsAffected),
		)
	}

	s.logOperation(
		logMsgSnapshotSaved,
		logAttrSnapshotID, snapshotID.String(),
		logAttrPlayerName, snapshot.PlayerName,
		logAttrItemCount, snapshot.ItemCount(),
		logAttrDurationMS, durationToMilliseconds(duration),
	)

	return snapshotID, nil
}

// LoadLatest returns the most recent snapshot of the player.
// The bool result is false when the player has no snapshot yet.
func (s SnapshotStore) LoadLatest(ctx context.Context, playerName string) (bank.Snapshot, bool, error) {
	if playerName == "" {
		return bank.Snapshot{}, false, ErrEmptyPlayerName
	}

	sqlQuery, buildErr := s.buildSelectLatestQuery(playerName)
	if buildErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgBuildSelectQueryFailed, logAttrError, buildErr.Error())
		}

		return bank.Snapshot{}, false, buildErr
	}

	start := time.Now()
	rows, queryErr := s.db.Query(ctx, sqlQuery)
	duration := time.Since(start)
	s.logQueryWithDuration(sqlQuery, logActionQuery, duration)

	if queryErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgDBQueryFailed, logAttrError, queryErr.Error(), logAttrQuery, sqlQuery)
		}

		return bank.Snapshot{}, false, errors.Join(ErrLoadingSnapshotFailed, queryErr)
	}
	defer s.closeRows(rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return bank.Snapshot{}, false, errors.Join(ErrLoadingSnapshotFailed, rowsErr)
		}

		return bank.Snapshot{}, false, nil
	}

	snapshot, scanErr := s.scanSnapshot(rows)
	if scanErr != nil {
		return bank.Snapshot{}, false, scanErr
	}

	s.logOperation(
		logMsgSnapshotLoaded,
		logAttrPlayerName, playerName,
		logAttrItemCount, snapshot.ItemCount(),
		logAttrDurationMS, durationToMilliseconds(duration),
	)

	return snapshot, true, nil
}

// scanSnapshot converts the current row into a bank.Snapshot.
func (s SnapshotStore) scanSnapshot(rows adapters.DBRows) (bank.Snapshot, error) {
	var (
		playerName string
		itemsJSON  string
		takenAt    time.Time
	)

	if scanErr := rows.Scan(&playerName, &itemsJSON, &takenAt); scanErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgScanRowFailed, logAttrError, scanErr.Error())
		}

		return bank.Snapshot{}, errors.Join(ErrScanningDBRowFailed, scanErr)
	}

	var items bank.ItemRecords
	if decodeErr := json.Unmarshal([]byte(itemsJSON), &items); decodeErr != nil {
		if s.logger != nil {
			s.logger.Error(logMsgScanRowFailed, logAttrError, decodeErr.Error())
		}

		return bank.Snapshot{}, errors.Join(ErrScanningDBRowFailed, decodeErr)
	}

	snapshot, buildErr := bank.BuildSnapshot(playerName, items, takenAt)
	if buildErr != nil {
		return bank.Snapshot{}, errors.Join(ErrScanningDBRowFailed, buildErr)
	}

	return snapshot, nil
}

// closeRows safely closes database rows and logs any errors.
func (s SnapshotStore) closeRows(rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		if s.logger != nil {
			s.logger.Warn(logMsgCloseRowsFailed, logAttrError, closeErr.Error())
		}
	}
}

func (s SnapshotStore) buildCreateTableStatements() []sqlQueryString {
	table := pq.QuoteIdentifier(s.tableName)
	index := pq.QuoteIdentifier(s.tableName + indexSuffix)

	return []sqlQueryString{
		fmt.Sprintf(
			"CREATE TABLE IF NOT EXISTS %s (%s uuid PRIMARY KEY, %s text NOT NULL, %s jsonb NOT NULL, %s timestamptz NOT NULL)",
			table, colSnapshotID, colPlayerName, colBankItems, colTakenAt,
		),
		fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS %s ON %s (%s, %s DESC)",
			index, table, colPlayerName, colTakenAt,
		),
	}
}

func (s SnapshotStore) buildInsertQuery(snapshotID uuid.UUID, snapshot bank.Snapshot) (sqlQueryString, error) {
	items := snapshot.Items
	if items == nil {
		items = bank.ItemRecords{}
	}

	itemsJSON, marshalErr := json.Marshal(items)
	if marshalErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, marshalErr)
	}

	insertStmt := goqu.Dialect(dialectPostgres).
		Insert(s.tableName).
		Rows(goqu.Record{
			colSnapshotID: goqu.L(castUUID, snapshotID.String()),
			colPlayerName: snapshot.PlayerName,
			colBankItems:  goqu.L(castJsonb, string(itemsJSON)),
			colTakenAt:    snapshot.TakenAt,
		})

	sqlQuery, _, toSQLErr := insertStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

func (s SnapshotStore) buildSelectLatestQuery(playerName string) (sqlQueryString, error) {
	selectStmt := goqu.Dialect(dialectPostgres).
		From(s.tableName).
		Select(
			goqu.C(colPlayerName),
			goqu.Cast(goqu.C(colBankItems), castText).As(colBankItems),
			goqu.C(colTakenAt),
		).
		Where(goqu.C(colPlayerName).Eq(playerName)).
		Order(goqu.C(colTakenAt).Desc(), goqu.C(colSnapshotID).Desc()).
		Limit(1)

	sqlQuery, _, toSQLErr := selectStmt.ToSQL()
	if toSQLErr != nil {
		return "", errors.Join(ErrBuildingQueryFailed, toSQLErr)
	}

	return sqlQuery, nil
}

// logQueryWithDuration logs SQL queries with execution time at debug level if the logger is configured.
func (s SnapshotStore) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if s.logger != nil {
		s.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, durationToMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (s SnapshotStore) logOperation(action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
