package config

import "flag"

func parseFlags(cfg *Config) {
	if flag.Parsed() {
		return
	}

	flag.StringVar(&cfg.EndpointAddr, "a", cfg.EndpointAddr, "HTTP endpoint address")
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN")
	flag.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "JWT signing secret")
	flag.StringVar(&cfg.AuthMode, "auth-mode", cfg.AuthMode, "auth mode: dev or prod")

	flag.Parse()
}
