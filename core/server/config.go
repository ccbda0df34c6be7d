package server

import (
	"fmt"
	"strconv"
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access mutating endpoints.
	ApiKey string `mapstructure:"api_key" default:""`
	// ActorHeader is the request header carrying the acting user's token.
	ActorHeader string `mapstructure:"actor_header" default:"X-Actor"`
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("server port %q is not numeric", c.Port)
	}
	if c.ActorHeader == "" {
		return fmt.Errorf("actor header must not be empty")
	}
	return nil
}
