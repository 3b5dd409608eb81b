package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "training_app", cfg.Database.Name)
	assert.True(t, cfg.Database.Transactions)
	assert.False(t, cfg.Auth.Enabled)
	assert.Equal(t, "training-events", cfg.Redis.Channel)
	assert.InDelta(t, 0.1, cfg.Tracing.SampleRatio, 1e-9)
	assert.False(t, cfg.S3.Enabled())
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  address: ":9090"
database:
  driver: sqlite
  dsn: "file:test.db"
s3:
  bucket_name: plan-sheets
redis:
  addr: "localhost:6379"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("SERVER_ADDRESS", ":7070")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Address, "env overrides file")
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
	assert.True(t, cfg.S3.Enabled())
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DATABASE_DRIVER", "mysql")
		_, err := LoadConfig(t.TempDir())
		assert.ErrorContains(t, err, "database.driver")
	})
	t.Run("sample ratio", func(t *testing.T) {
		t.Setenv("TRACING_SAMPLE_RATIO", "1.5")
		_, err := LoadConfig(t.TempDir())
		assert.ErrorContains(t, err, "tracing.sample_ratio")
	})
	t.Run("auth without secret", func(t *testing.T) {
		t.Setenv("AUTH_ENABLED", "true")
		_, err := LoadConfig(t.TempDir())
		assert.ErrorContains(t, err, "jwt.secret")
	})
}
