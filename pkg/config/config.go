// pkg/config/config.go
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Supported backing store drivers.
const (
	DriverSnowflake = "snowflake"
	DriverPostgres  = "postgres"
)

// Config represents the application configuration
type Config struct {
	// Backing store selection
	Driver    string
	Snowflake *SnowflakeConfig
	Postgres  *PostgresConfig

	// Override catalog settings
	CatalogTable string

	// Store call timeouts
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Driver:       getEnv("OVERRIDE_DRIVER", DriverSnowflake),
		CatalogTable: getEnv("OVERRIDE_REF_TABLE", "OVERRIDE_REF"),
		ReadTimeout:  time.Duration(getEnvAsInt("READ_TIMEOUT_SECONDS", 60)) * time.Second,
		WriteTimeout: time.Duration(getEnvAsInt("WRITE_TIMEOUT_SECONDS", 30)) * time.Second,
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "json"),
	}

	// Load only the database configuration the selected driver needs
	switch cfg.Driver {
	case DriverSnowflake:
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, errors.New("failed to load Snowflake configuration: " + err.Error())
		}
		cfg.Snowflake = snowConfig
	case DriverPostgres:
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, errors.New("failed to load PostgreSQL configuration: " + err.Error())
		}
		cfg.Postgres = pgConfig
	default:
		return nil, errors.New("unsupported OVERRIDE_DRIVER: " + cfg.Driver)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSnowflake:
		if c.Snowflake == nil {
			return errors.New("snowflake configuration is required")
		}
	case DriverPostgres:
		if c.Postgres == nil {
			return errors.New("postgreSQL configuration is required")
		}
	default:
		return errors.New("driver must be snowflake or postgres")
	}

	if c.CatalogTable == "" {
		return errors.New("override catalog table name is required")
	}

	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return errors.New("store timeouts must be positive")
	}

	return nil
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
