package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "backend", cfg.Source)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "0 */5 * * * *", cfg.Schedule.RefreshCron)
	assert.Equal(t, "AAPL", cfg.Dashboard.PreviewSymbol)
	assert.Equal(t, 30, cfg.Dashboard.Horizon)
	assert.Equal(t, 10, cfg.Dashboard.CardCount)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
source: yahoo
backend:
  timeout: 2s
storage:
  driver: redis
  redis:
    host: cache
    db: 2
recorder:
  retention: 48h
dashboard:
  preview_symbol: NVDA
`)
	t.Setenv("REDIS_HOST", "redis.internal")
	t.Setenv("PREDICTION_HORIZON", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yahoo", cfg.Source)
	assert.Equal(t, 2*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "redis.internal", cfg.Storage.Redis.Host, "env overrides file")
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, "6379", cfg.Storage.Redis.Port)
	assert.Equal(t, 48*time.Hour, cfg.Recorder.Retention)
	assert.Equal(t, "NVDA", cfg.Dashboard.PreviewSymbol)
	assert.Equal(t, 7, cfg.Dashboard.Horizon)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeConfig(t, "source: ["))
	assert.Error(t, err, "malformed yaml")

	t.Setenv("BACKEND_TIMEOUT", "soon")
	_, err = Load(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err, "bad BACKEND_TIMEOUT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown source", func(c *Config) { c.Source = "bloomberg" }},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "etcd" }},
		{"horizon too long", func(c *Config) { c.Dashboard.Horizon = 400 }},
		{"negative horizon", func(c *Config) { c.Dashboard.Horizon = -1 }},
		{"no cards", func(c *Config) { c.Dashboard.CardCount = -3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
