// Package config provides centralized application configuration.
//
// Configuration is assembled from three layers, lowest precedence first:
//
//  1. Struct tag defaults ('default' tags on the partial config structs)
//  2. A .env file in the working directory (loaded via godotenv)
//  3. Environment variables (SERVER_PORT maps to server.port, etc.)
//
// Each subsystem owns its partial Config struct (server, database, storage,
// broker, log); this package only composes and loads them.
package config
