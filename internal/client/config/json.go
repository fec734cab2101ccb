package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/resonance-app/resonance/internal/flagx"
)

type jsonConfig struct {
	ServerBaseURL       string `json:"server_base_url"`
	DatabaseDSN         string `json:"database_dsn"`
	SyncIntervalSeconds int    `json:"sync_interval_seconds"`
	RequestTimeoutSecs  int    `json:"request_timeout_seconds"`
}

// parseJSON overlays cfg with values from the file named by -c/-config.
// Absence of the flag means no JSON is loaded. Read or unmarshal errors
// panic; this runs once at startup before anything else.
func parseJSON(cfg *Config) {
	path := flagx.JSONConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.DatabaseDSN != "" {
		cfg.DatabaseDSN = jc.DatabaseDSN
	}
	if jc.SyncIntervalSeconds > 0 {
		cfg.SyncInterval = time.Duration(jc.SyncIntervalSeconds) * time.Second
	}
	if jc.RequestTimeoutSecs > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeoutSecs) * time.Second
	}
}
