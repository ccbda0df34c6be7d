// Package sync implements the irrigation batch reconciler.
//
// Mobile clients collect irrigation records while offline and submit them in
// batches once connectivity returns. Each item carries a client-generated
// local id; the reconciler upserts by that key, so resubmitting a batch any
// number of times yields exactly one stored record per key.
//
// # Processing Model
//
// A batch is processed inside a single database transaction. Items succeed or
// fail independently: a bad item (unknown sector or equipment, cross-farm
// mismatch, validation error) is reported in its result slot without
// disturbing its siblings, while an infrastructure failure rolls the whole
// batch back. Audit entries and the outbox event commit together with the
// records they describe.
//
// The only fatal input error is an unresolvable actor, which rejects the
// batch before any work is done.
//
// # Components
//
//   - Service: The reconciliation loop, metric derivation, and outbox hand-off.
//   - Handler: POST /sync/irrigation, actor taken from a request header.
//   - Loader: Registers the feature with the application.
package sync
