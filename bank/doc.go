// Package bank provides the core types and the extraction pipeline for bank snapshots.
//
// This package defines the data entities (ItemRecord, Snapshot), the collaborator interfaces
// the host game client implements (WidgetSource, NameResolver, DisplayAdapter), and the
// Extractor which turns the bank item container into an ordered sequence of ItemRecords.
//
// Key types:
//   - ItemRecord: One occupied bank slot with its resolved display name
//   - Snapshot: The records of one player captured at one point in time
//   - Extractor: Walks the bank container, filters empty slots, resolves names
//
// Common usage pattern:
//
//	extractor, err := bank.NewExtractor(widgetSource, nameResolver, bank.WithExtractorLogger(logger))
//	if err != nil {
//		// handle error
//	}
//
//	records := extractor.Extract(ctx)
//	snapshot, err := bank.BuildSnapshot(playerName, records, time.Now())
//
// Persisting and publishing snapshots is done by the filecodec and httppublisher packages.
package bank
