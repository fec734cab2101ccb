package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// jsonConfigEnvVar names the env variable pointing at an optional JSON
// config file. A missing file is not an error.
const jsonConfigEnvVar = "CONFIG"

func parseJSON(cfg *Config) error {
	path := os.Getenv(jsonConfigEnvVar)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
