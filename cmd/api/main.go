package main

import (
	"context"
	"os"

	"inventory-backend/internal/config"
	"inventory-backend/pkg/container"
	"inventory-backend/pkg/logger"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", err)
		os.Exit(1)
	}

	logger.Init(cfg.App.Environment)

	c, err := container.New(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to build container", err)
		os.Exit(1)
	}
	defer c.Close()

	if err := runServer(c); err != nil {
		logger.Error("server exited with error", err)
		os.Exit(1)
	}
}
