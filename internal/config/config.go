// Package config loads the homepage API configuration from the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/FlorianTh2/homepageBackend/internal/storage/sqlite"
)

// Cache backends.
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// Config is the runtime configuration of the API server.
type Config struct {
	Addr            string        `env:"HOMEPAGE_ADDR"                  envDefault:":8080"`
	BaseURL         string        `env:"HOMEPAGE_BASE_URL"`
	DBPath          string        `env:"HOMEPAGE_DB_PATH"`
	LogLevel        string        `env:"HOMEPAGE_LOG_LEVEL"             envDefault:"info"`
	LogPretty       bool          `env:"HOMEPAGE_LOG_PRETTY"            envDefault:"false"`
	CacheTTLSeconds int           `env:"HOMEPAGE_CACHE_TTL_SECONDS"     envDefault:"600"`
	CacheBackend    string        `env:"HOMEPAGE_CACHE_BACKEND"         envDefault:"memory"`
	RedisAddr       string        `env:"HOMEPAGE_REDIS_ADDR"            envDefault:"localhost:6379"`
	StorageTimeout  time.Duration `env:"HOMEPAGE_STORAGE_TIMEOUT"       envDefault:"5s"`
	ShutdownTimeout time.Duration `env:"HOMEPAGE_SHUTDOWN_TIMEOUT"      envDefault:"10s"`
	JWTSecret       string        `env:"HOMEPAGE_JWT_SECRET"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

// StoragePath returns HOMEPAGE_DB_PATH, or the default database location
// when it is unset. The rest of the configuration is not read.
func StoragePath() (string, error) {
	var storage struct {
		DBPath string `env:"HOMEPAGE_DB_PATH"`
	}
	if err := env.Parse(&storage); err != nil {
		return "", fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(storage.DBPath) == "" {
		return sqlite.DefaultPath(), nil
	}
	return storage.DBPath, nil
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.CacheBackend = strings.ToLower(strings.TrimSpace(cfg.CacheBackend))
	if strings.TrimSpace(cfg.DBPath) == "" {
		cfg.DBPath = sqlite.DefaultPath()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that have no usable default.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("HOMEPAGE_JWT_SECRET is required")
	}
	if c.CacheTTLSeconds <= 0 {
		return fmt.Errorf("HOMEPAGE_CACHE_TTL_SECONDS must be positive, got %d", c.CacheTTLSeconds)
	}
	switch c.CacheBackend {
	case CacheBackendMemory:
	case CacheBackendRedis:
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("HOMEPAGE_REDIS_ADDR is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("HOMEPAGE_CACHE_BACKEND must be %q or %q, got %q", CacheBackendMemory, CacheBackendRedis, c.CacheBackend)
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("HOMEPAGE_STORAGE_TIMEOUT must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("HOMEPAGE_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// CacheTTL returns the response cache TTL.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
