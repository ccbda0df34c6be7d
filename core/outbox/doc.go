// Package outbox implements the transactional outbox used for post-commit
// notification fan-out.
//
// The sync reconciler enqueues one event per processed batch inside the batch
// transaction. Events therefore commit (or roll back) together with the
// records and audit entries they describe. A background Dispatcher later
// publishes each event to the MQTT broker and archives the batch report to
// object storage; delivery failures are retried on subsequent passes and
// never affect the originating batch.
package outbox
