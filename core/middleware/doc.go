// Package middleware holds the cross-cutting HTTP middleware.
//
// # Components
//
//   - rayid: Assigns a tracing id to every request so log lines across the
//     sync pipeline can be correlated. Client-supplied ids are honored.
//   - auth: Validates the X-Api-Key header; disabled when no key is
//     configured so local development needs no credentials.
//
// Both are registered globally in the start command, rayid first so even
// an auth rejection is traceable.
package middleware
