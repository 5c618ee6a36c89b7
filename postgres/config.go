package postgres

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvUser     = "DATABASE_UID"
	EnvPassword = "DATABASE_PWD"
	EnvHost     = "DATABASE_HOST"
	EnvPort     = "DATABASE_PORT"
	EnvDatabase = "DATABASE_NAME"
	EnvSchema   = "DATABASE_SCHEMA"
)

// Defaults applied by Config.withDefaults.
const (
	DefaultPort   = "5432"
	DefaultSchema = "public"
)

// ErrMissingConfig indicates that required connection settings are absent.
// A half-empty configuration would otherwise produce a malformed connection
// target that only fails once the first query runs.
var ErrMissingConfig = errors.New("missing database configuration")

// Config holds the connection settings for a PostgreSQL database. It is
// constructed once at startup, validated, and passed by reference to Connect;
// it is not mutated afterwards.
type Config struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	Database string `yaml:"database"`
	Schema   string `yaml:"schema"`

	// Pool sizing; zero values let the driver pick its defaults.
	MaxConns int32 `yaml:"max_conns"`
	MinConns int32 `yaml:"min_conns"`
}

// ConfigFromEnv builds a Config from the process environment and validates
// it. Missing credentials fail fast here instead of surfacing later as an
// unreachable connection target.
func ConfigFromEnv() (*Config, error) {
	return ConfigFromEnvFunc(os.Getenv)
}

// ConfigFromEnvFunc is the hermetic variant of ConfigFromEnv: callers (and
// tests) supply the environment lookup function.
func ConfigFromEnvFunc(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		User:     getenv(EnvUser),
		Password: getenv(EnvPassword),
		Host:     getenv(EnvHost),
		Port:     getenv(EnvPort),
		Database: getenv(EnvDatabase),
		Schema:   getenv(EnvSchema),
	}
	cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ConfigFromFile reads and validates a YAML configuration file with the same
// shape as Config.
func ConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) withDefaults() {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.Schema == "" {
		c.Schema = DefaultSchema
	}
}

// Validate checks that every setting required to reach the database is
// present, naming all missing settings at once.
func (c *Config) Validate() error {
	var missing []string
	if c.User == "" {
		missing = append(missing, "user")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if c.Host == "" {
		missing = append(missing, "host")
	}
	if c.Database == "" {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}

// DSN builds the connection string for the driver. Credentials are
// URL-escaped so passwords with reserved characters survive.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.Database,
	}
	return u.String()
}
