package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"task-store/internal/logging"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration options for task-store
type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

// DatabaseConfig selects and tunes the task store
type DatabaseConfig struct {
	Driver       string        `koanf:"driver"`
	Dir          string        `koanf:"dir"`
	Filename     string        `koanf:"filename"`
	URL          string        `koanf:"url"`
	MaxConns     int           `koanf:"max_conns"`
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
	Exporter    string `koanf:"exporter"`
	Endpoint    string `koanf:"endpoint"`
}

// knownKeys lists every koanf key so env vars like
// TASKS_DATABASE_QUERY_TIMEOUT resolve to database.query_timeout.
var knownKeys = []string{
	"database.driver",
	"database.dir",
	"database.filename",
	"database.url",
	"database.max_conns",
	"database.query_timeout",
	"log.level",
	"log.format",
	"telemetry.enabled",
	"telemetry.service_name",
	"telemetry.exporter",
	"telemetry.endpoint",
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	dbDir := ".tasks"
	if homeDir, err := os.UserHomeDir(); err == nil {
		dbDir = filepath.Join(homeDir, ".tasks")
	}

	return &Config{
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			Dir:          dbDir,
			Filename:     "tasks.db",
			MaxConns:     5,
			QueryTimeout: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "task-store",
			Exporter:    "stdout",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the per-command deadline
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return &ConfigError{Field: "database.url", Message: "database url is required for the postgres driver"}
		}
	case DriverMemory:
	default:
		return &ConfigError{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q", c.Database.Driver)}
	}

	if c.Database.MaxConns < 1 {
		return &ConfigError{Field: "database.max_conns", Message: "max connections must be at least 1"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}

	if !logging.ValidLevel(c.Log.Level) {
		return &ConfigError{Field: "log.level", Message: fmt.Sprintf("unknown log level %q", c.Log.Level)}
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return &ConfigError{Field: "log.format", Message: "log format must be text or json"}
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.ServiceName == "" {
			return &ConfigError{Field: "telemetry.service_name", Message: "service name cannot be empty when telemetry is enabled"}
		}
		switch c.Telemetry.Exporter {
		case "stdout":
		case "otlp":
			if c.Telemetry.Endpoint == "" {
				return &ConfigError{Field: "telemetry.endpoint", Message: "endpoint is required for the otlp exporter"}
			}
		default:
			return &ConfigError{Field: "telemetry.exporter", Message: "exporter must be stdout or otlp"}
		}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s': %s", e.Field, e.Message)
}
