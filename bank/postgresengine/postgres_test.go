package postgresengine_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ironbank-snapshot-go/bank"
	. "github.com/AntonStoeckl/ironbank-snapshot-go/bank/postgresengine"
	"github.com/AntonStoeckl/ironbank-snapshot-go/testutil/helper"
	"github.com/AntonStoeckl/ironbank-snapshot-go/testutil/postgresengine/config"
)

type adapterCase struct {
	name string
	open func(t *testing.T, tableName string) (SnapshotStore, func(query string) error)
}

func adapterCases() []adapterCase {
	return []adapterCase{
		{
			name: "pgx",
			open: func(t *testing.T, tableName string) (SnapshotStore, func(string) error) {
				pool := config.PostgresPGXPool(t)
				store, err := NewSnapshotStoreFromPGXPool(pool, WithTableName(tableName))
				require.NoError(t, err)

				return store, func(query string) error {
					_, execErr := pool.Exec(context.Background(), query)
					return execErr
				}
			},
		},
		{
			name: "sql",
			open: func(t *testing.T, tableName string) (SnapshotStore, func(string) error) {
				db := config.PostgresSQLDB(t)
				store, err := NewSnapshotStoreFromSQLDB(db, WithTableName(tableName))
				require.NoError(t, err)

				return store, func(query string) error {
					_, execErr := db.Exec(query)
					return execErr
				}
			},
		},
		{
			name: "sqlx",
			open: func(t *testing.T, tableName string) (SnapshotStore, func(string) error) {
				db := config.PostgresSQLX(t)
				store, err := NewSnapshotStoreFromSQLX(db, WithTableName(tableName))
				require.NoError(t, err)

				return store, func(query string) error {
					_, execErr := db.Exec(query)
					return execErr
				}
			},
		},
	}
}

func givenFreshTable(t *testing.T, adapter adapterCase) SnapshotStore {
	t.Helper()

	tableName := "bank_snapshots_it_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	store, exec := adapter.open(t, tableName)
	require.NoError(t, store.CreateTable(context.Background()))
	t.Cleanup(func() {
		_ = exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(tableName))
	})

	return store
}

func Test_SnapshotStore_SaveAndLoadLatest(t *testing.T) {
	for _, adapter := range adapterCases() {
		t.Run(adapter.name, func(t *testing.T) {
			// setup
			ctx := context.Background()
			store := givenFreshTable(t, adapter)
			older, err := bank.BuildSnapshot("Zezima", helper.GivenItemRecords(3), time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			newer, err := bank.BuildSnapshot("Zezima", bank.ItemRecords{{ID: 4151, Quantity: 1, Name: "Abyssal whip"}}, time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC))
			require.NoError(t, err)
			other, err := bank.BuildSnapshot("Lynx Titan", nil, time.Date(2024, 5, 3, 12, 0, 0, 0, time.UTC))
			require.NoError(t, err)

			// arrange
			for _, snapshot := range []bank.Snapshot{newer, older, other} {
				_, saveErr := store.Save(ctx, snapshot)
				require.NoError(t, saveErr)
			}

			// act
			latest, found, loadErr := store.LoadLatest(ctx, "Zezima")

			// assert
			require.NoError(t, loadErr)
			assert.True(t, found)
			assert.Equal(t, newer.Items, latest.Items)
			assert.True(t, newer.TakenAt.Equal(latest.TakenAt))
		})
	}
}

func Test_SnapshotStore_LoadLatest_UnknownPlayer(t *testing.T) {
	for _, adapter := range adapterCases() {
		t.Run(adapter.name, func(t *testing.T) {
			store := givenFreshTable(t, adapter)

			_, found, err := store.LoadLatest(context.Background(), "nobody")

			assert.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func Test_SnapshotStore_CreateTable_IsIdempotent(t *testing.T) {
	for _, adapter := range adapterCases() {
		t.Run(adapter.name, func(t *testing.T) {
			store := givenFreshTable(t, adapter)

			assert.NoError(t, store.CreateTable(context.Background()))
		})
	}
}
