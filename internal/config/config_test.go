package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
app:
  name: "haksik"
  environment: "test"
database:
  path: "./data/test.db"
redis:
  enabled: true
  address: "localhost:6379"
reservation:
  refresh_seconds: 30
accessibility:
  tts_enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "haksik", cfg.App.Name)
	assert.Equal(t, "./data/test.db", cfg.Database.Path)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30, cfg.Reservation.RefreshSeconds)
	assert.True(t, cfg.Accessibility.TTSEnabled)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: "./data/test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "haksik", cfg.App.Name)
	assert.Equal(t, 60, cfg.Reservation.RefreshSeconds)
	assert.Equal(t, "https://www.cbnucoop.com/service/restaurant/", cfg.Menu.URL)
	assert.Equal(t, 10, cfg.Menu.TimeoutSeconds)
	assert.Equal(t, 30, cfg.Menu.CacheMinutes)
	assert.Equal(t, "exports", cfg.Exports.Path)
	assert.False(t, cfg.Accessibility.TTSEnabled)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("HAKSIK_DB_PATH", "/tmp/haksik.db")
	path := writeConfig(t, `
database:
  path: "${HAKSIK_DB_PATH}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/haksik.db", cfg.Database.Path)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	assert.Error(t, cfg.Validate(), "database path is required")

	cfg.Database.Path = "./data/test.db"
	assert.NoError(t, cfg.Validate())

	cfg.Redis.Enabled = true
	assert.Error(t, cfg.Validate(), "redis enabled needs an address")

	cfg.Redis.Address = "localhost:6379"
	assert.NoError(t, cfg.Validate())

	cfg.Reservation.RefreshSeconds = -1
	assert.Error(t, cfg.Validate())
}
