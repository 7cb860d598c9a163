package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() *Config {
	return &Config{
		Port:         "8410",
		JWTSecret:    "development-only-secret",
		StoreBaseURL: "https://api.github.com/repos/acme/rig-data/contents",
		StoreToken:   "ghp_testtoken",
		Env:          "development",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "Valid development config",
			mutate: func(c *Config) {},
		},
		{
			name:    "Missing port",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: "PORT is required",
		},
		{
			name:    "Missing JWT secret",
			mutate:  func(c *Config) { c.JWTSecret = "" },
			wantErr: "JWT_SECRET is required",
		},
		{
			name:    "Missing store URL",
			mutate:  func(c *Config) { c.StoreBaseURL = "" },
			wantErr: "STORE_BASE_URL is required",
		},
		{
			name:    "Missing store token",
			mutate:  func(c *Config) { c.StoreToken = "" },
			wantErr: "STORE_TOKEN is required",
		},
		{
			name: "Production keeps default secret",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "your-secret-key-change-in-production"
			},
			wantErr: "must be changed from the default",
		},
		{
			name: "Production secret too short",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "short"
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "Production with strong secret",
			mutate: func(c *Config) {
				c.Env = "production"
				c.JWTSecret = "a-long-random-secret-value-0123456789abcdef"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validTestConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
