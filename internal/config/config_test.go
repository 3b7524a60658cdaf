package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  listen_addr: ":9090"
api:
  url: "http://example.com/api"
  timeout: 5s
  retry_count: 2
app:
  log_level: "debug"
  min_dataset_size: 30
database:
  host: "127.0.0.1"
  port: 3306
  username: "ssq"
  password: "secret"
  database: "predictions"
telegram:
  token: "abc:def"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.ListenAddr)
	require.Equal(t, "http://example.com/api", cfg.API.URL)
	require.Equal(t, 5*time.Second, cfg.API.Timeout)
	require.Equal(t, 2, cfg.API.RetryCount)
	require.Equal(t, "debug", cfg.App.LogLevel)
	require.Equal(t, 30, cfg.App.MinDatasetSize)
	require.True(t, cfg.Database.Enabled())
	require.True(t, cfg.Telegram.Enabled())
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  url: "http://example.com/api"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, ":8000", cfg.Server.ListenAddr)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
	require.Equal(t, 3, cfg.API.RetryCount)
	require.Equal(t, time.Second, cfg.API.RetryDelay)
	require.Equal(t, "info", cfg.App.LogLevel)
	require.Equal(t, 2*time.Minute, cfg.App.CacheTTL)
	require.Equal(t, 50, cfg.App.MinDatasetSize)
	require.Equal(t, 1000, cfg.App.MaxDatasetSize)
	require.Equal(t, 200, cfg.App.RecommendedDatasetSize)
	require.False(t, cfg.Database.Enabled())
	require.False(t, cfg.Telegram.Enabled())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/config.yaml")
	require.Error(t, err)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [broken")
	_, err := LoadConfig(path)
	require.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	db := Database{
		Host:     "localhost",
		Port:     3306,
		Username: "user",
		Password: "pass",
		Database: "ssq",
	}

	require.Equal(t,
		"user:pass@tcp(localhost:3306)/ssq?charset=utf8mb4&parseTime=True&loc=Local",
		db.GetDSN())
}
