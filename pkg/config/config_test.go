package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSnowflakeEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SNOWFLAKE_USER", "analyst")
	t.Setenv("SNOWFLAKE_PASSWORD", "secret")
	t.Setenv("SNOWFLAKE_ACCOUNT", "xy12345")
	t.Setenv("SNOWFLAKE_WAREHOUSE", "REPORTING_WH")
	t.Setenv("SNOWFLAKE_DATABASE", "ANALYTICS")
}

func TestLoadConfigDefaults(t *testing.T) {
	setSnowflakeEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, DriverSnowflake, cfg.Driver)
	assert.Equal(t, "OVERRIDE_REF", cfg.CatalogTable)
	assert.Equal(t, 60*time.Second, cfg.ReadTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	require.NotNil(t, cfg.Snowflake)
	assert.Equal(t, "ANALYTICS", cfg.Snowflake.Database)
	assert.Equal(t, "PUBLIC", cfg.Snowflake.Schema)
	assert.Nil(t, cfg.Postgres)
}

func TestLoadConfigPostgresDriver(t *testing.T) {
	t.Setenv("OVERRIDE_DRIVER", DriverPostgres)
	t.Setenv("POSTGRES_USER", "override")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "analytics")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.NotNil(t, cfg.Postgres)
	assert.Nil(t, cfg.Snowflake)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Contains(t, cfg.Postgres.ConnectionString(), "dbname=analytics")
}

func TestLoadConfigMissingRequired(t *testing.T) {
	// Snowflake driver with no credentials at all
	t.Setenv("OVERRIDE_DRIVER", DriverSnowflake)
	t.Setenv("SNOWFLAKE_USER", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigUnknownDriver(t *testing.T) {
	t.Setenv("OVERRIDE_DRIVER", "oracle")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfigCatalogTableOverride(t *testing.T) {
	setSnowflakeEnv(t)
	t.Setenv("OVERRIDE_REF_TABLE", "OVERRIDE_REF_V2")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "OVERRIDE_REF_V2", cfg.CatalogTable)
}
