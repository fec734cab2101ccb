package config

import (
	"flag"
	"os"
	"time"

	"github.com/resonance-app/resonance/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the Remote API
//	-f string   path to the local SQLite database
//	-i int      background sync interval in seconds
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-f", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the server")
	fs.StringVar(&cfg.DatabaseDSN, "f", cfg.DatabaseDSN, "path to the local database file")
	interval := fs.Int("i", int(cfg.SyncInterval.Seconds()), "sync interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.SyncInterval = time.Duration(*interval) * time.Second
}
