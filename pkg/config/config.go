// Package config loads runtime settings for the shop binaries from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/joeshaw/envdecode"
)

// Config holds every setting the Lambdas and the client read.
type Config struct {
	AppEnv   string `env:"APP_ENV,default=development"`
	LogLevel string `env:"LOG_LEVEL,default=info"`
	LogFile  string `env:"LOG_FILE"`

	APIBaseURL   string `env:"SHOP_API_BASE_URL,default=https://2j2cydoqi9.execute-api.us-east-1.amazonaws.com/prod"`
	StoreBackend string `env:"SHOP_STORE_BACKEND,default=file"`
	DataDir      string `env:"SHOP_DATA_DIR,default=./data"`

	Redis    Redis
	Database Database
}

// Redis addresses the cache and the redis store backend.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,default=0"`
}

// Database addresses the backend PostgreSQL instance.
type Database struct {
	Host     string `env:"DB_HOST,default=localhost"`
	Port     string `env:"DB_PORT,default=5432"`
	User     string `env:"DB_USER,default=postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME,default=shop"`
	SSLMode  string `env:"DB_SSLMODE,default=disable"`
}

// Store backends accepted in SHOP_STORE_BACKEND.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Load decodes Config from the process environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the binaries cannot run with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendFile, BackendRedis, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.StoreBackend)
	}
	if c.StoreBackend == BackendRedis && c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR environment variable not set")
	}
	if c.APIBaseURL == "" {
		return errors.New("SHOP_API_BASE_URL is empty")
	}
	return nil
}

// IsLocal reports whether the binaries run on a developer machine.
func (c *Config) IsLocal() bool {
	return c.AppEnv == "local" || c.AppEnv == "development"
}

// DSN renders the lib/pq connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}
