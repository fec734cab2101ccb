package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/resonance-app/resonance/internal/server"
	"github.com/resonance-app/resonance/internal/server/config"
)

func main() {

	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
