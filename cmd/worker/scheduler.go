package main

import (
	"inventory-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// startScheduler registers the periodic maintenance jobs: the ledger invariant
// check every hour and the alert sweep every night.
func startScheduler(redisOpt asynq.RedisClientOpt) *asynq.Scheduler {
	scheduler := asynq.NewScheduler(redisOpt, nil)

	entries := []struct {
		cron string
		task *asynq.Task
	}{
		{"0 * * * *", asynq.NewTask(TypeStockVerify, nil)},
		{"30 2 * * *", asynq.NewTask(TypeAlertsSweep, nil)},
	}
	for _, e := range entries {
		if _, err := scheduler.Register(e.cron, e.task); err != nil {
			logger.Error("failed to register scheduled task "+e.task.Type(), err)
		}
	}

	go func() {
		logger.Info("scheduler starting", nil)
		if err := scheduler.Run(); err != nil {
			logger.Error("scheduler failed", err)
		}
	}()
	return scheduler
}
