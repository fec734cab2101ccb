// Package config loads runtime settings for the practice journal CLI.
package config

import "time"

// Config holds runtime settings for the client.
//
// ServerBaseURL is the base URL of the Remote API (no trailing slash).
// DatabaseDSN is the SQLite file backing the local replica and queue.
// SyncInterval controls how often the background drain runs.
// RequestTimeout bounds a single Remote API call.
type Config struct {
	ServerBaseURL  string
	DatabaseDSN    string
	SyncInterval   time.Duration
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:4000"
	c.DatabaseDSN = "resonance.db"
	c.SyncInterval = 30 * time.Second
	c.RequestTimeout = 15 * time.Second
}

// LoadConfig applies defaults, then overlays values from an optional JSON
// file and command-line flags. Later sources win.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
