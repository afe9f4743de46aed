package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"CoinFunnel/internal/di"
	"CoinFunnel/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to configuration file")
	once := flag.Bool("once", false, "run a single pipeline pass and exit")
	flag.Parse()

	// A missing .env is fine; explicit environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}
	if *once {
		cfg.SingleShot = true
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("initialization error: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
