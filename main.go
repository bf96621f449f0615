package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/balagrajendran/purchase-management-sub001/cmd"
	"github.com/balagrajendran/purchase-management-sub001/internal/config"
	"github.com/balagrajendran/purchase-management-sub001/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()
	if err := logger.Setup(cfg.LoggerConfig()); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	cmd.Execute(cfg)
}
