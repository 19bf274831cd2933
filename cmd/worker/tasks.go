package main

import (
	"context"
	"fmt"

	"inventory-backend/pkg/container"
	"inventory-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// Periodic maintenance task types.
const (
	TypeStockVerify = "stock:verify"
	TypeAlertsSweep = "alerts:sweep"
)

// Resolved alerts older than this are pruned by the sweep job.
const alertRetentionDays = 90

func startAsynqServer(redisOpt asynq.RedisClientOpt, c *container.Container) *asynq.Server {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeStockVerify, handleStockVerify(c))
	mux.HandleFunc(TypeAlertsSweep, handleAlertsSweep(c))

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 10,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("task failed: "+task.Type(), err)
		}),
	})

	go func() {
		logger.Info("worker starting", nil)
		if err := srv.Run(mux); err != nil {
			logger.Error("worker failed", err)
		}
	}()
	return srv
}

// handleStockVerify folds the movement ledger and compares every materialized
// position against it. A divergence means a bug or out-of-band write; it is
// logged loudly but never auto-repaired — rebuild is an explicit operation.
func handleStockVerify(c *container.Container) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		report, err := c.StockService.Verify(ctx)
		if err != nil {
			return fmt.Errorf("stock verify: %w", err)
		}
		if !report.Consistent {
			for _, d := range report.Divergences {
				logger.Warn("position diverges from ledger", map[string]interface{}{
					"product_id":   d.ProductID.String(),
					"warehouse_id": d.WarehouseID.String(),
					"on_hand":      d.OnHand,
					"ledger_sum":   d.LedgerSum,
				})
			}
			return fmt.Errorf("stock verify: %d divergent positions", len(report.Divergences))
		}
		logger.Info("stock ledger verified", nil)
		return nil
	}
}

// handleAlertsSweep prunes resolved alerts past the retention window.
func handleAlertsSweep(c *container.Container) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		removed, err := c.AlertService.SweepResolved(ctx, alertRetentionDays)
		if err != nil {
			return fmt.Errorf("alerts sweep: %w", err)
		}
		logger.Info("alerts swept", map[string]interface{}{"removed": removed})
		return nil
	}
}
