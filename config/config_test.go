package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		configPathEnv, "DB_HOST", "DB_PORT", "DB_USER", "DB_NAME", "DB_PASSWORD", "PORT",
		"BATCH_SIZE", "WORKERS", "CRON_WORKERS", "CRON_INTERVAL", "METRICS_PORT", "TIMEZONE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 100, cfg.BatchSize)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, 2*time.Second, cfg.Cron.Interval())
	assert.Equal(t, "9102", cfg.Cron.MetricsPort)
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  host: db.internal
  name: payments
batch_size: 50
cron:
  workers: 3
  metrics_port: "9200"
`), 0o600))
	t.Setenv(configPathEnv, path)
	t.Setenv("BATCH_SIZE", "25")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("METRICS_PORT", "9300")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, 25, cfg.BatchSize)
	assert.Equal(t, 3, cfg.Cron.Workers)
	assert.Equal(t, 2, cfg.Cron.IntervalSeconds)
	assert.Equal(t, "9300", cfg.Cron.MetricsPort)
	assert.Contains(t, cfg.Database.DSN(), "dbname=payments")
	assert.Contains(t, cfg.Database.DSN(), "password=secret")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "batch size", key: "BATCH_SIZE", val: "0"},
		{name: "workers", key: "WORKERS", val: "-1"},
		{name: "timezone", key: "TIMEZONE", val: "Mars/Olympus"},
		{name: "log level", key: "LOG_LEVEL", val: "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}
