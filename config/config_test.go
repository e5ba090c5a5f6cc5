package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsToProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("ADMIN_SESSION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Server.Environment)
	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, DefaultSessionSecret, cfg.Admin.SessionSecret)
	assert.Error(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		secret      string
		wantErr     bool
	}{
		{"development accepts default secret", "development", DefaultSessionSecret, false},
		{"production rejects default secret", "production", DefaultSessionSecret, true},
		{"staging rejects default secret", "staging", DefaultSessionSecret, true},
		{"production rejects blank secret", "production", "   ", true},
		{"production accepts real secret", "production", "9f8e7d6c5b4a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Server: ServerConfig{Environment: tt.environment},
				Admin:  AdminConfig{SessionSecret: tt.secret},
			}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
