// Package postgresengine provides a PostgreSQL store for bank snapshots received by the bank-items endpoint.
//
// Snapshots are appended, one row per received envelope, and read back as the latest
// snapshot per player. The store supports multiple database adapters (pgx, sql.DB, sqlx)
// and builds its queries with goqu.
//
// Usage examples:
//
//	// Basic usage
//	db, _ := pgxpool.New(context.Background(), dsn)
//	store, _ := postgresengine.NewSnapshotStoreFromPGXPool(db)
//	_ = store.CreateTable(ctx)
//
//	// With a custom table and operational logging
//	store, _ := postgresengine.NewSnapshotStoreFromPGXPool(
//		db,
//		postgresengine.WithTableName("gim_bank_snapshots"),
//		postgresengine.WithLogger(logger),
//	)
//
//	id, _ := store.Save(ctx, snapshot)
//	latest, found, _ := store.LoadLatest(ctx, "Zezima")
package postgresengine
