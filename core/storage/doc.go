// Package storage provides the object storage client used for report archival.
//
// It wraps the Minio SDK behind a small Client interface so that tests can
// substitute a mock (see the mocks subpackage). Processed sync batches are
// archived as JSON objects under reports/sync/ by the outbox dispatcher;
// this package only supplies the transport.
package storage
