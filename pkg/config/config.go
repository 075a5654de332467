package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for advisor-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8470"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Redis configuration (optional, used for per-user generation locks)
	Redis RedisConfig `yaml:"redis"`

	// Financial module adapter configuration
	Modules ModulesConfig `yaml:"modules"`

	// PolicyPath points at the engine policy file (thresholds, conflict
	// pairs, cool-down windows). Empty means built-in defaults.
	PolicyPath string `yaml:"policy_path" env:"POLICY_PATH" env-default:""`

	// Engine policy, loaded from PolicyPath at startup.
	Policy *Policy `yaml:"-"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"advisor"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"advisor_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// RedisConfig holds Redis connection configuration.
// An empty host disables Redis; generation locks fall back to
// in-process locking (single-instance deployments only).
type RedisConfig struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:""`
	Port     int    `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"` // Secret - not in YAML
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// ModulesConfig holds settings for the read-only financial module
// adapters the context builder calls into.
type ModulesConfig struct {
	// BaseURL is the base URL of the financial modules API.
	BaseURL string `yaml:"base_url" env:"MODULES_BASE_URL" env-default:"http://localhost:8400"`
	// TimeoutSeconds bounds each upstream read. The context builder
	// fails fast past this rather than hanging on a stale module.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"MODULES_TIMEOUT_SECONDS" env-default:"5"`
	// MaxRetries bounds transient-error retries per upstream read.
	MaxRetries int `yaml:"max_retries" env:"MODULES_MAX_RETRIES" env-default:"2"`
}

// Load reads configuration from config.yaml with environment variable
// overrides, then loads the engine policy. The version parameter is
// injected at build time and set on the returned Config.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	policy, err := LoadPolicy(cfg.PolicyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load engine policy: %w", err)
	}
	cfg.Policy = policy

	return cfg, nil
}
