package server_test

import (
	"testing"

	"irrigation-manager/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     server.Config
		wantErr bool
	}{
		{"valid", server.Config{Port: "8080", ActorHeader: "X-Actor"}, false},
		{"empty port", server.Config{Port: "", ActorHeader: "X-Actor"}, true},
		{"non-numeric port", server.Config{Port: "http", ActorHeader: "X-Actor"}, true},
		{"empty actor header", server.Config{Port: "8080", ActorHeader: ""}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
