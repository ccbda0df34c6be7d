// Package database manages the relational database connection.
//
// It wraps GORM with connection pooling, DSN construction, and timeouts for
// MySQL in production, and supports sqlite (including :memory:) for tests.
//
// # Schema Inspection
//
// The inspector helpers read actual schema state (columns, indexes) through
// raw dialect queries. The dbcheck command uses HasUniqueIndex to verify the
// unique constraint on irrigation_records.local_id, which is the invariant
// that makes idempotent sync upserts safe under concurrency.
package database
