package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"inventory-backend/internal/config"
	"inventory-backend/pkg/container"
	"inventory-backend/pkg/logger"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// pingRedis verifies the broker is reachable before the worker starts
// accepting jobs.
func pingRedis(ctx context.Context, cfg *config.Config) error {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer client.Close()
	return client.Ping(ctx).Err()
}

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

	if err := pingRedis(context.Background(), cfg); err != nil {
		logger.Error("redis unreachable", err)
		os.Exit(1)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := startAsynqServer(redisOpt, c)
	scheduler := startScheduler(redisOpt)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down", nil)
	scheduler.Shutdown()
	srv.Shutdown()
	logger.Info("worker stopped", nil)
}
