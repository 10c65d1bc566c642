package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, StoreDriverFile, cfg.Store.Driver)
	assert.Equal(t, "./files/users.txt", cfg.Store.FilePath)
	assert.Equal(t, RateLimitBackendMemory, cfg.RateLimit.Backend)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "user-registration-service", cfg.Logger.ServiceName)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "HTTP_PORT=9090\nSTORE_DRIVER=sqlite\nSTORE_SQLITE_PATH=/tmp/u.db\nRATE_LIMIT_ENABLED=true\nRATE_LIMIT_BURST_CAPACITY=3\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.App.HTTPPort, "environment wins over app.env")
	assert.Equal(t, StoreDriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/u.db", cfg.Store.SQLitePath)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 3, cfg.RateLimit.BurstCapacity)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"bad port", func(c *Config) { c.App.HTTPPort = "http" }, "HTTP_PORT"},
		{"port out of range", func(c *Config) { c.App.HTTPPort = "70000" }, "HTTP_PORT"},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mongo" }, "STORE_DRIVER"},
		{"empty file path", func(c *Config) { c.Store.FilePath = "" }, "STORE_FILE_PATH"},
		{"postgres without host", func(c *Config) {
			c.Store.Driver = StoreDriverPostgres
			c.DB.Host = ""
		}, "DB_HOST"},
		{"unknown backend", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.Backend = "memcached"
		}, "RATE_LIMIT_BACKEND"},
		{"zero rate", func(c *Config) {
			c.RateLimit.Enabled = true
			c.RateLimit.RequestsPerSecond = 0
		}, "RATE_LIMIT_REQUESTS_PER_SECOND"},
		{"zero shutdown timeout", func(c *Config) { c.App.ShutdownTimeoutSeconds = 0 }, "SHUTDOWN_TIMEOUT_SECONDS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_Validate_DisabledRateLimitIgnoresBackend(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	cfg.RateLimit.Backend = "anything"
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable", db.DSN())
}
