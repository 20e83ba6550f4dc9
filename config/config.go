// Package config loads application settings from an optional YAML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Default values applied when a key is not set.
const (
	DefaultHTTPAddr         = ":3000"
	DefaultDBDriver         = DriverSQLite
	DefaultDBURI            = "todos.db"
	DefaultCachePrefix      = "task:"
	DefaultCacheTTL         = 5 * time.Minute
	DefaultShutdownTimeout  = 30 * time.Second
	DefaultLogLevel         = "info"
	DefaultActivityCapacity = 100
)

// Config holds all runtime settings.
type Config struct {
	HTTPAddr           string        `koanf:"http_addr"`
	CORSAllowedOrigins string        `koanf:"cors_allowed_origins"`
	DBDriver           string        `koanf:"db_driver"`
	DBURI              string        `koanf:"db_uri"`
	DBDebug            bool          `koanf:"db_debug"`
	RedisAddr          string        `koanf:"redis_addr"`
	RedisPassword      string        `koanf:"redis_password"`
	RedisDB            int           `koanf:"redis_db"`
	CachePrefix        string        `koanf:"cache_prefix"`
	CacheTTL           time.Duration `koanf:"cache_ttl"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout"`
	LogLevel           string        `koanf:"log_level"`
	ActivityCapacity   int           `koanf:"activity_capacity"`
}

// knownKeys limits the environment provider to the settings above.
var knownKeys = map[string]struct{}{
	"http_addr":            {},
	"cors_allowed_origins": {},
	"db_driver":            {},
	"db_uri":               {},
	"db_debug":             {},
	"redis_addr":           {},
	"redis_password":       {},
	"redis_db":             {},
	"cache_prefix":         {},
	"cache_ttl":            {},
	"shutdown_timeout":     {},
	"log_level":            {},
	"activity_capacity":    {},
}

// Load reads the file named by CONFIG_FILE, if any, then the environment.
func Load() (*Config, error) {
	return LoadWithFile(os.Getenv("CONFIG_FILE"))
}

// LoadWithFile loads configuration from the YAML file at path (skipped when
// path is empty) and overrides it with environment variables.
func LoadWithFile(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// HTTP_ADDR -> http_addr
	if err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := knownKeys[key]; !ok {
			return ""
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = DefaultDBDriver
	}
	cfg.DBDriver = strings.ToLower(cfg.DBDriver)
	if cfg.DBURI == "" && cfg.DBDriver == DriverSQLite {
		cfg.DBURI = DefaultDBURI
	}
	if cfg.CachePrefix == "" {
		cfg.CachePrefix = DefaultCachePrefix
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.ActivityCapacity == 0 {
		cfg.ActivityCapacity = DefaultActivityCapacity
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error

	switch c.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMySQL:
	default:
		errs = append(errs, fmt.Errorf("unsupported db_driver %q", c.DBDriver))
	}
	if c.DBURI == "" {
		errs = append(errs, errors.New("db_uri is required"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("cache_ttl must be positive"))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	if c.ActivityCapacity < 0 {
		errs = append(errs, errors.New("activity_capacity must be positive"))
	}
	switch strings.ToLower(c.LogLevel) {
	case "info", "error":
	default:
		errs = append(errs, fmt.Errorf("unsupported log_level %q", c.LogLevel))
	}

	return errors.Join(errs...)
}

// CacheEnabled reports whether a Redis address has been configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

// AllowedOrigins splits CORSAllowedOrigins into its comma-separated entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// ErrorsOnly reports whether only error-level logs should be emitted.
func (c *Config) ErrorsOnly() bool {
	return strings.EqualFold(c.LogLevel, "error")
}
