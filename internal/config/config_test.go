package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MINIO_ACCESS_KEY_ID", "minio")
	t.Setenv("MINIO_SECRET_ACCESS_KEY", "minio-secret")
	t.Setenv("JWT_SIGNING_KEY", "0123456789abcdef0123456789abcdef")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, "artlink", cfg.Database.Name)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "artlink", cfg.JWT.Issuer)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.Empty(t, cfg.Upload.ClamdAddr)
	assert.Equal(t, 5, cfg.Login.LockThreshold)
}

func TestLoadReadsEnvironment(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("POSTGRES_DB", "gallery")
	t.Setenv("JWT_EXPIRE", "48h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("CLAMD_ADDR", "tcp://clamav:3310")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.API.Port)
	assert.Equal(t, "gallery", cfg.Database.Name)
	assert.Equal(t, 48*time.Hour, cfg.JWT.TTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.API.AllowedOrigins)
	assert.Equal(t, "tcp://clamav:3310", cfg.Upload.ClamdAddr)
}

func TestLoadRejectsShortSigningKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SIGNING_KEY", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt signing key")
}

func TestLoadRequiresMinIOCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MINIO_ACCESS_KEY_ID", "")

	_, err := Load()
	require.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, Name: "artlink", User: "u", Password: "p", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=artlink sslmode=disable", d.DSN())
}
