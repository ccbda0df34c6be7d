// Package loader wires application features into the HTTP server.
//
// A feature bundles a service, its HTTP handler, and the glue between them
// (catalog, sync, audit, ...). Each one implements the Feature interface and
// registers itself with the Manager; the start command then loads every
// enabled feature in registration order. Features stay independently
// testable and can be toggled without touching the server setup.
package loader
