// Package httppublisher sends bank snapshots to the remote bank-items endpoint.
//
// A snapshot is wrapped into an Envelope with exactly two top-level fields,
// "player_name" and "bank_items", and sent as one blocking JSON POST. The item
// payload is embedded as a structured array, never as a pre-encoded string.
//
// Publisher.Publish is fire and forget: transport failures are logged and swallowed.
// Publisher.Send exposes the same exchange with explicit error returns.
// AsyncPublisher moves the send off the caller's goroutine so a host event thread is never blocked.
//
// Usage examples:
//
//	publisher, _ := httppublisher.NewPublisher(httppublisher.WithLogger(logger))
//	publisher.Publish(ctx, snapshot)
//
//	async, _ := httppublisher.NewAsyncPublisher(publisher, 1, httppublisher.WithAsyncLogger(logger))
//	async.Publish(ctx, snapshot)
//	defer async.Close(ctx)
package httppublisher
