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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := writeConfig(t, "server:\n  port: \"4000\"\n")

	cfg, err := LoadConfig(dir, "test")
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 20, cfg.Database.MaxOpen)
	assert.Equal(t, 2*time.Second, cfg.Collab.SaveDebounce)
	assert.Equal(t, 30.0, cfg.Collab.MessagesPerSecond)
	assert.Equal(t, 50, cfg.Collab.Burst)
	assert.Equal(t, 30*time.Second, cfg.Redis.StatsTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, filepath.Join(dir, "test.yaml"), cfg.File)
}

func TestLoadConfig_FileValues(t *testing.T) {
	dir := writeConfig(t, `
database:
  driver: mysql
  host: db
  port: 3306
collab:
  save_debounce: 500ms
cors:
  allowed_origins:
    - http://a.example
    - http://b.example
habits:
  timezone: UTC
`)
	cfg, err := LoadConfig(dir, "test")
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 3306, cfg.Database.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.Collab.SaveDebounce)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORS.AllowedOrigins)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := writeConfig(t, "database:\n  host: fromfile\n")
	t.Setenv("DATABASE_HOST", "fromenv")
	t.Setenv("PORT", "5555")

	cfg, err := LoadConfig(dir, "test")
	require.NoError(t, err)
	assert.Equal(t, "fromenv", cfg.Database.Host)
	assert.Equal(t, "5555", cfg.Server.Port)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"driver":   "database:\n  driver: oracle\n",
		"debounce": "collab:\n  save_debounce: 0s\n",
		"timezone": "habits:\n  timezone: Mars/Olympus\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, body), "test")
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir(), "absent")
	assert.Error(t, err)
}
