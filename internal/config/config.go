// Package config provides loader configuration from environment variables
// and destination-store resolution from the command line.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Dialect names the SQL flavour of the destination store.
type Dialect string

// Supported destination dialects.
const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// Config holds all configuration for the loader and analyzer
type Config struct {
	Loader  LoaderConfig
	SQLite  SQLiteConfig
	Logging LoggingConfig
}

// LoaderConfig holds bulk-load tuning
type LoaderConfig struct {
	// BatchSize is the maximum number of rows per multi-row INSERT.
	BatchSize int
}

// SQLiteConfig holds settings applied to SQLite destinations
type SQLiteConfig struct {
	BusyTimeoutMS int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Destination is a resolved destination store.
type Destination struct {
	Dialect Dialect
	// DSN is passed to sql.Open unchanged.
	DSN string
	// Display is safe to log (no credentials).
	Display string
}

// Load loads configuration from environment variables
// It optionally loads from a .env file if it exists
func Load() (*Config, error) {
	_ = godotenv.Load()

	batchSize, err := getEnvInt("LOADER_BATCH_SIZE", 500)
	if err != nil {
		return nil, err
	}
	busyTimeout, err := getEnvInt("SQLITE_BUSY_TIMEOUT_MS", 5000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Loader: LoaderConfig{
			BatchSize: batchSize,
		},
		SQLite: SQLiteConfig{
			BusyTimeoutMS: busyTimeout,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration Load produces with an empty environment.
func Default() *Config {
	return &Config{
		Loader:  LoaderConfig{BatchSize: 500},
		SQLite:  SQLiteConfig{BusyTimeoutMS: 5000},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Loader.BatchSize <= 0 {
		return fmt.Errorf("LOADER_BATCH_SIZE must be positive")
	}
	if c.SQLite.BusyTimeoutMS < 0 {
		return fmt.Errorf("SQLITE_BUSY_TIMEOUT_MS must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error")
	}
	validLogFormats := map[string]bool{"json": true, "console": true}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}

	return nil
}

// ResolveDestination maps the destination argument to a dialect and DSN.
// PostgreSQL URLs select lib/pq; anything else is a SQLite file path.
func (c *Config) ResolveDestination(target string) (Destination, error) {
	if strings.TrimSpace(target) == "" {
		return Destination{}, fmt.Errorf("destination store path is required")
	}

	if strings.HasPrefix(target, "postgres://") || strings.HasPrefix(target, "postgresql://") {
		display := target
		if at := strings.LastIndex(target, "@"); at >= 0 {
			display = target[:strings.Index(target, "://")+3] + "***" + target[at:]
		}
		return Destination{Dialect: DialectPostgres, DSN: target, Display: display}, nil
	}

	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)", target, c.SQLite.BusyTimeoutMS)
	return Destination{Dialect: DialectSQLite, DSN: dsn, Display: target}, nil
}

// getEnv retrieves an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer: %w", key, err)
	}
	return n, nil
}
