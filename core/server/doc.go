// Package server holds the HTTP server configuration.
//
// The actual Fiber application is assembled in the start command; this package
// only defines the configuration surface (port, API key, actor header) and its
// validation so that other packages can depend on it without importing Fiber.
package server
