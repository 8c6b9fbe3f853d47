package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config is read from the environment. Keys are the lower-cased variable names,
// e.g. POSTGRES_URI -> postgres_uri.
type Config struct {
	Environment      string        `koanf:"env" validate:"required"`
	LogLevel         string        `koanf:"log_level" validate:"required,oneof=trace debug info warn error"`
	DatabaseDriver   string        `koanf:"database_driver" validate:"required,oneof=postgres sqlite3"`
	PostgresURI      string        `koanf:"postgres_uri" validate:"required_if=DatabaseDriver postgres"`
	SQLitePath       string        `koanf:"sqlite_path" validate:"required_if=DatabaseDriver sqlite3"`
	RedisURI         string        `koanf:"redis_uri"` // empty disables the insights cache
	InsightsCacheTTL time.Duration `koanf:"insights_cache_ttl" validate:"gte=0"`
}

func defaults() *Config {
	return &Config{
		Environment:      "development",
		LogLevel:         "info",
		DatabaseDriver:   DriverPostgres,
		SQLitePath:       "data/serenify.db",
		InsightsCacheTTL: 10 * time.Minute,
	}
}

// Load reads the process environment on top of the defaults and validates the result.
// Call godotenv.Load first if a .env file should be honoured.
func Load() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider("", ".", func(s string) string {
		return strings.ToLower(s)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CacheEnabled reports whether a Redis URI was configured.
func (c *Config) CacheEnabled() bool {
	return strings.TrimSpace(c.RedisURI) != ""
}
