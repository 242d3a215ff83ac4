// Package httpreceiver serves the bank-items endpoint that game clients publish snapshots to.
//
// POST accepts the same Envelope the httppublisher sends and stores it with the receive
// time as its timestamp. GET returns the latest stored Envelope for a player.
//
// Usage:
//
//	handler, _ := httpreceiver.NewHandler(store, httpreceiver.WithLogger(logger))
//	mux := http.NewServeMux()
//	handler.Routes(mux)
package httpreceiver
