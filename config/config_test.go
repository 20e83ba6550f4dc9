package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for key := range knownKeys {
		name := strings.ToUpper(key)
		if v, ok := os.LookupEnv(name); ok {
			t.Setenv(name, v)
			os.Unsetenv(name)
		}
	}
}

func TestLoadWithFile_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadWithFile("")
	require.NoError(t, err)

	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, DefaultDBURI, cfg.DBURI)
	assert.Equal(t, DefaultCachePrefix, cfg.CachePrefix)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultShutdownTimeout, cfg.ShutdownTimeout)
	assert.Equal(t, DefaultActivityCapacity, cfg.ActivityCapacity)
	assert.False(t, cfg.CacheEnabled())
	assert.False(t, cfg.ErrorsOnly())
	assert.Empty(t, cfg.AllowedOrigins())
}

func TestLoadWithFile_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
http_addr: ":8080"
db_uri: "file.db"
cache_ttl: 1m
cors_allowed_origins: "http://a.example, http://b.example"
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	t.Setenv("DB_URI", "env.db")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("DB_DEBUG", "true")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "env.db", cfg.DBURI)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
	assert.True(t, cfg.DBDebug)
	assert.True(t, cfg.CacheEnabled())
	assert.True(t, cfg.ErrorsOnly())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins())
}

func TestLoadWithFile_MissingFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadWithFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(*Config) {}, false},
		{"postgres driver", func(c *Config) { c.DBDriver = DriverPostgres; c.DBURI = "host=localhost" }, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "oracle" }, true},
		{"postgres without uri", func(c *Config) { c.DBDriver = DriverPostgres; c.DBURI = "" }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "trace" }, true},
		{"negative capacity", func(c *Config) { c.ActivityCapacity = -1 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
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
