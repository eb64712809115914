package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDatabaseConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("DATABASE_HOST", "env-host")
	t.Setenv("DATABASE_PORT", "6543")
	t.Setenv("POSTGRES_DB", "env-db")
	t.Setenv("POSTGRES_USER", "env-user")
	t.Setenv("POSTGRES_PASSWORD", "env-pass")
	t.Setenv("DATABASE_SSLMODE", "")

	cfg, err := loadDatabaseConfig("flag-host", 0, "", "flag-user", "", "")
	require.NoError(t, err)

	assert.Equal(t, "flag-host", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "env-db", cfg.Name)
	assert.Equal(t, "flag-user", cfg.User)
	assert.Equal(t, "env-pass", cfg.Password)
	assert.Equal(t, "disable", cfg.SSLMode)
}

func TestLoadDatabaseConfig_RequiresCredentials(t *testing.T) {
	t.Setenv("POSTGRES_DB", "")
	t.Setenv("POSTGRES_USER", "")
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("DATABASE_PORT", "")

	_, err := loadDatabaseConfig("", 0, "", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DB")

	_, err = loadDatabaseConfig("", 0, "db", "", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_USER")
}

func TestLoadDatabaseConfig_BadPort(t *testing.T) {
	t.Setenv("DATABASE_PORT", "not-a-port")

	_, err := loadDatabaseConfig("", 0, "db", "user", "pass", "")
	require.Error(t, err)
}
