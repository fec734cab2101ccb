package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseJSON_OverlaysConfiguredFields(t *testing.T) {
	path := writeConfigFile(t, `{
		"server_base_url": "http://api.internal:4000",
		"sync_interval_seconds": 5
	}`)
	os.Args = []string{"cmd", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	assert.Equal(t, "http://api.internal:4000", cfg.ServerBaseURL)
	assert.Equal(t, 5*time.Second, cfg.SyncInterval)
	// Fields absent from the file keep their defaults.
	assert.Equal(t, "resonance.db", cfg.DatabaseDSN)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestParseJSON_NoFlagMeansNoFile(t *testing.T) {
	os.Args = []string{"cmd"}

	cfg := &Config{}
	cfg.LoadDefaults()
	require.NotPanics(t, func() { parseJSON(cfg) })
	assert.Equal(t, "http://localhost:4000", cfg.ServerBaseURL)
}

func TestParseJSON_MissingFilePanics(t *testing.T) {
	os.Args = []string{"cmd", "-c", filepath.Join(t.TempDir(), "absent.json")}

	cfg := &Config{}
	cfg.LoadDefaults()
	require.Panics(t, func() { parseJSON(cfg) })
}

func TestParseJSON_MalformedJSONPanics(t *testing.T) {
	path := writeConfigFile(t, `{not json`)
	os.Args = []string{"cmd", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	require.Panics(t, func() { parseJSON(cfg) })
}
