package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_DIR", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, StorageFile, cfg.Storage.Driver)
	assert.Equal(t, filepath.Join("data", "menu.json"), cfg.Storage.MenuFile)
	assert.Equal(t, filepath.Join("data", "orders.json"), cfg.Storage.OrdersFile)
	assert.Equal(t, []string{"kitchen"}, cfg.Auth.APIKeys)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Auth.JWTSecret, "no built-in signing secret")
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_DIR", "/srv/dosha")
	t.Setenv("API_KEYS", "one, two ,,three")
	t.Setenv("UPI_VPA", "shop@okaxis")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "/srv/dosha/orders.json", cfg.Storage.OrdersFile)
	assert.Equal(t, []string{"one", "two", "three"}, cfg.Auth.APIKeys)
	assert.Equal(t, "shop@okaxis", cfg.Payment.UPIVPA)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "3001"},
			Auth:     AuthConfig{APIKeys: []string{"k"}, JWTSecret: "s"},
			Storage:  StorageConfig{Driver: StorageFile, OrdersFile: "orders.json"},
			LogLevel: "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "non-numeric port", mutate: func(c *Config) { c.Server.Port = "http" }, wantErr: true},
		{name: "no api keys", mutate: func(c *Config) { c.Auth.APIKeys = nil }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "mongo" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *Config) { c.Storage.Driver = StoragePostgres }, wantErr: true},
		{
			name: "postgres with url",
			mutate: func(c *Config) {
				c.Storage.Driver = StoragePostgres
				c.Storage.DatabaseURL = "postgres://localhost/dosha"
			},
		},
		{
			name: "password login without secret",
			mutate: func(c *Config) {
				c.Auth.AdminPasswordHash = "$2a$10$abc"
				c.Auth.JWTSecret = ""
			},
			wantErr: true,
		},
		{
			name: "password login with short secret",
			mutate: func(c *Config) {
				c.Auth.AdminPasswordHash = "$2a$10$abc"
				c.Auth.JWTSecret = "dev_secret_change_me"
			},
			wantErr: true,
		},
		{
			name: "password login with long secret",
			mutate: func(c *Config) {
				c.Auth.AdminPasswordHash = "$2a$10$abc"
				c.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
			},
		},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
