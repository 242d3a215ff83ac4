// Package filecodec persists bank snapshots to a local JSON file and loads them back.
//
// The file lives at a fixed location below the user's home directory
// (~/.runelite/ironBankSharingData.json) and holds a JSON array of item records
// keyed by field name. Loading never fails the caller: a missing file and a corrupt
// file both yield an empty sequence, the latter with a warning.
//
// Usage examples:
//
//	codec, _ := filecodec.NewCodec(filecodec.WithLogger(logger))
//
//	if err := codec.Save(records); err != nil {
//		// handle error
//	}
//
//	records := codec.Load()
package filecodec
