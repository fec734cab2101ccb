package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "address and interval",
			args: []string{"cmd", "-a", "http://127.0.0.1:9090", "-i", "10"},
			expected: &Config{
				ServerBaseURL: "http://127.0.0.1:9090",
				SyncInterval:  10 * time.Second,
			},
		},
		{
			name: "database file",
			args: []string{"cmd", "-f", "/tmp/journal.db"},
			expected: &Config{
				DatabaseDSN:  "/tmp/journal.db",
				SyncInterval: 0,
			},
		},
		{
			name:        "non-numeric interval",
			args:        []string{"cmd", "-i", "abc"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
			os.Args = tt.args

			cfg := &Config{}
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}

			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestParseFlags_UnknownFlagsAreIgnored(t *testing.T) {
	os.Args = []string{"cmd", "-verbose", "-a", "http://10.0.0.1:4000", "-x=1"}

	cfg := &Config{}
	require.NotPanics(t, func() { parseFlags(cfg) })
	assert.Equal(t, "http://10.0.0.1:4000", cfg.ServerBaseURL)
}
