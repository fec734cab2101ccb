package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/resonance-app/resonance/internal/client/cli"
	"github.com/resonance-app/resonance/internal/client/config"
	"github.com/resonance-app/resonance/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	sl := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	logger := logging.NewSlogLogger(sl)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
