package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tata-ai/tata/pkg/silo/store"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, 8100, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, store.DriverFile, cfg.Store.Driver)
	assert.Equal(t, "templates", cfg.Store.Path)
	assert.Equal(t, 5*time.Minute, cfg.Store.CacheTTL)
	assert.True(t, cfg.Store.Watch)
	assert.Equal(t, 5*time.Minute, cfg.Monitoring.Interval)
	assert.Equal(t, 3, cfg.Monitoring.FailureThreshold)
	assert.Equal(t, "0 0 * * * *", cfg.Snapshots.Schedule)
	assert.Equal(t, 24, cfg.Snapshots.Retain)
	assert.False(t, cfg.Notifications.SMTP.Enabled)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tata.yaml")
	content := `
server:
  port: 9000
store:
  driver: sqlite
  path: /var/lib/tata/templates.db
  seed: true
monitoring:
  enabled: true
  interval: 30s
  services:
    - name: tata-core
      url: http://core.internal:8001/api/health
      expected_response:
        status: healthy
notifications:
  smtp:
    enabled: true
    host: smtp.tata.local
    from: alerts@tata.local
    to: [ops@tata.local, oncall@tata.local]
snapshots:
  enabled: true
  retain: 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	t.Setenv("TATA_SERVER_PORT", "9100")
	t.Setenv("TATA_LOG_LEVEL", "debug")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port, "env overrides file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, store.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/var/lib/tata/templates.db", cfg.Store.Path)
	assert.True(t, cfg.Store.Seed)

	assert.True(t, cfg.Monitoring.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Monitoring.Interval)
	require.Len(t, cfg.Monitoring.Services, 1)
	assert.Equal(t, "tata-core", cfg.Monitoring.Services[0].Name)
	assert.Equal(t, "healthy", cfg.Monitoring.Services[0].ExpectedResponse["status"])

	assert.True(t, cfg.Notifications.SMTP.Enabled)
	assert.Equal(t, 587, cfg.Notifications.SMTP.Port)
	assert.Equal(t, []string{"ops@tata.local", "oncall@tata.local"}, cfg.Notifications.SMTP.To)

	assert.True(t, cfg.Snapshots.Enabled)
	assert.Equal(t, 3, cfg.Snapshots.Retain)
	assert.Equal(t, "snapshots", cfg.Snapshots.Dir)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "tata")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 9100\n"), 0644))

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestLoadIgnoresHomeTataYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "tata")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tata.yaml"), []byte("server:\n  port: 9100\n"), 0644))

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 8100, cfg.Server.Port)
}
