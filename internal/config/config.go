// Package config loads slugctl settings from the environment and the
// record type definitions from a YAML file.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/dmitrymomot/sluggable/pkg/db"
	"github.com/dmitrymomot/sluggable/pkg/logger"
	"github.com/dmitrymomot/sluggable/pkg/redis"
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
	ErrUnknownType   = errors.New("config: unknown record type")
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the slugctl environment.
type Config struct {
	Driver     string `env:"SLUGCTL_DRIVER" envDefault:"sqlite"`
	SQLitePath string `env:"SLUGCTL_SQLITE_PATH" envDefault:"slugs.db"`
	TypesFile  string `env:"SLUGCTL_TYPES_FILE" envDefault:"slugctl.yaml"`

	Cache       string `env:"SLUGCTL_CACHE" envDefault:"memory"`
	CachePrefix string `env:"SLUGCTL_CACHE_PREFIX" envDefault:"slugs"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	DB     db.Config
	Redis  redis.Config
	Sentry logger.SentryConfig
}

// Load parses the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, errors.Join(ErrInvalidConfig, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the driver and cache selections and their required settings.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.DB.ConnectionString == "" {
			return fmt.Errorf("%w: DATABASE_CONN_URL is required for the postgres driver", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("%w: SLUGCTL_SQLITE_PATH is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, c.Driver)
	}

	switch c.Cache {
	case CacheMemory:
	case CacheRedis:
		if c.Redis.URL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for the redis cache", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache %q", ErrInvalidConfig, c.Cache)
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return errors.Join(ErrInvalidConfig, err)
	}

	return nil
}
