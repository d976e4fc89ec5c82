package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	Port     int    `envconfig:"PORT" default:"8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Storage  StorageConfig
	Hiring   HiringConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	SQLite   SQLiteConfig
	S3       S3Config
	CORS     CORSConfig
}

// storage facility selection
type StorageConfig struct {
	Backend   string        `envconfig:"STORAGE_BACKEND" default:"sqlite"`
	KeyPrefix string        `envconfig:"STORAGE_KEY_PREFIX" default:""`
	Timeout   time.Duration `envconfig:"STORAGE_TIMEOUT" default:"5s"`
}

// domain behaviour switches
type HiringConfig struct {
	JobDeletePolicy     string `envconfig:"JOB_DELETE_POLICY" default:"orphan"`
	EnforceJobReference bool   `envconfig:"ENFORCE_JOB_REFERENCE" default:"false"`
	SeedFile            string `envconfig:"SEED_FILE"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASS"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
	Channel  string `envconfig:"REDIS_CHANNEL" default:"hiring:storage-events"`
}

type PostgresConfig struct {
	DSN           string        `envconfig:"DATABASE_URL"`
	MaxOpenConns  int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns  int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnLifetime  time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
	NotifyChannel string        `envconfig:"DB_NOTIFY_CHANNEL" default:"storage_events"`
}

type SQLiteConfig struct {
	Path         string        `envconfig:"SQLITE_PATH" default:"hiring.sqlite"`
	PollInterval time.Duration `envconfig:"SQLITE_POLL_INTERVAL" default:"1s"`
}

type S3Config struct {
	Region          string        `envconfig:"AWS_REGION" default:"us-east-1"`
	Bucket          string        `envconfig:"AWS_BUCKET"`
	Prefix          string        `envconfig:"S3_PREFIX" default:"storage"`
	RefreshInterval time.Duration `envconfig:"S3_REFRESH_INTERVAL" default:"30s"`
}

type CORSConfig struct {
	AllowOrigins string `envconfig:"CORS_ALLOW_ORIGINS" default:"*"`
}

var validBackends = map[string]bool{
	"memory":   true,
	"sqlite":   true,
	"redis":    true,
	"postgres": true,
	"s3":       true,
}

var validPolicies = map[string]bool{
	"orphan":   true,
	"restrict": true,
	"cascade":  true,
}

// Load reads .env files (missing files are ignored) and then the environment.
func Load(envFiles ...string) (*Config, error) {
	return LoadWith(envFiles, nil)
}

// LoadWith is Load with apply run on the result before it is validated, so
// command-line overrides can replace values that would not pass on their own.
func LoadWith(envFiles []string, apply func(*Config)) (*Config, error) {
	for _, f := range envFiles {
		if f == "" {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if apply != nil {
		apply(&cfg)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Hiring.JobDeletePolicy = strings.ToLower(strings.TrimSpace(cfg.Hiring.JobDeletePolicy))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if !validBackends[c.Storage.Backend] {
		return fmt.Errorf("invalid STORAGE_BACKEND: %q (must be one of: memory, sqlite, redis, postgres, s3)", c.Storage.Backend)
	}
	if !validPolicies[c.Hiring.JobDeletePolicy] {
		return fmt.Errorf("invalid JOB_DELETE_POLICY: %q (must be one of: orphan, restrict, cascade)", c.Hiring.JobDeletePolicy)
	}
	if c.Storage.Timeout <= 0 {
		return fmt.Errorf("STORAGE_TIMEOUT must be positive")
	}

	switch c.Storage.Backend {
	case "postgres":
		if c.Postgres.DSN == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres backend")
		}
		if c.Postgres.MaxIdleConns > c.Postgres.MaxOpenConns {
			return fmt.Errorf("DB_MAX_IDLE_CONNS (%d) cannot exceed DB_MAX_OPEN_CONNS (%d)",
				c.Postgres.MaxIdleConns, c.Postgres.MaxOpenConns)
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("AWS_BUCKET is required for the s3 backend")
		}
		if c.S3.RefreshInterval <= 0 {
			return fmt.Errorf("S3_REFRESH_INTERVAL must be positive")
		}
	case "sqlite":
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH must not be empty")
		}
		if c.SQLite.PollInterval <= 0 {
			return fmt.Errorf("SQLITE_POLL_INTERVAL must be positive")
		}
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR must not be empty")
		}
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Port=%d, Storage.Backend=%s, Storage.KeyPrefix=%q, "+
		"Hiring.JobDeletePolicy=%s, Hiring.EnforceJobReference=%t}",
		c.Env, c.Port, c.Storage.Backend, c.Storage.KeyPrefix,
		c.Hiring.JobDeletePolicy, c.Hiring.EnforceJobReference)
}
