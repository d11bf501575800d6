package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestLoadFS_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadFS(afero.NewMemMapFs(), "", noEnv)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadFS(afero.NewMemMapFs(), "/etc/parenteye/missing.yaml", noEnv)
	require.NoError(t, err)
	assert.Equal(t, ":8787", cfg.Server.Listen)
}

func TestLoadFS_PartialFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte(`
server:
  listen: "127.0.0.1:9000"
  read_timeout: 5s
query:
  max_num_of_result: 50
client:
  range_km: 25
  resolve_missing_coordinates: true
geocoding:
  workers: 0
`), 0o644))

	cfg, err := LoadFS(fs, "/cfg.yaml", noEnv)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, 50, cfg.Query.MaxNumOfResult)
	assert.Equal(t, 10, cfg.Query.DefaultNumOfResult)
	assert.Equal(t, 25.0, cfg.Client.RangeInKm)
	assert.Equal(t, 100, cfg.Client.NumOfResult)
	assert.True(t, cfg.Client.ResolveMissingCoordinates)
	assert.Equal(t, 4, cfg.Geocoding.Workers, "zero falls back to default")
}

func TestLoadFS_EnvOverrides(t *testing.T) {
	env := map[string]string{
		"PARENTEYE_LISTEN":       ":7000",
		"PARENTEYE_DATABASE":     "/tmp/events.db",
		"PARENTEYE_LOG_FILE":     "/var/log/parenteye.log",
		"PARENTEYE_GEOCODER_URL": "http://localhost:8088",
	}
	cfg, err := LoadFS(afero.NewMemMapFs(), "", func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Listen)
	assert.Equal(t, "/tmp/events.db", cfg.Database.Path)
	assert.Equal(t, "/var/log/parenteye.log", cfg.Logging.File)
	assert.Equal(t, "http://localhost:8088", cfg.Geocoding.BaseURL)
}

func TestLoadFS_InvalidYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("server: [unterminated"), 0o644))
	_, err := LoadFS(fs, "/bad.yaml", noEnv)
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Client.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Client.Timezone = "UTC"
	assert.Equal(t, "UTC", cfg.Location().String())
}
