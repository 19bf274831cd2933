package database

import (
	"context"
	"fmt"
	"time"

	"inventory-backend/internal/config"
	"inventory-backend/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDB wraps the pgx connection pool and its lifecycle.
type PostgresDB struct {
	Pool   *pgxpool.Pool
	Config *config.DatabaseConfig
}

// NewPostgresDB creates an unconnected wrapper; call Connect before use.
func NewPostgresDB(cfg *config.DatabaseConfig) *PostgresDB {
	return &PostgresDB{Config: cfg}
}

// Connect establishes the pool with retry and exponential backoff, then
// verifies it with a ping.
func (db *PostgresDB) Connect(ctx context.Context) error {
	poolCfg, err := pgxpool.ParseConfig(db.Config.URL)
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = db.Config.MaxConns
	poolCfg.MinConns = db.Config.MinConns
	poolCfg.MaxConnLifetime = db.Config.MaxConnLifetime
	poolCfg.MaxConnIdleTime = db.Config.MaxConnIdleTime
	poolCfg.ConnConfig.ConnectTimeout = db.Config.ConnectTimeout

	var pool *pgxpool.Pool
	var lastErr error

	for attempt := 1; attempt <= db.Config.MaxRetries; attempt++ {
		connectCtx, cancel := context.WithTimeout(ctx, db.Config.ConnectTimeout)
		pool, lastErr = pgxpool.NewWithConfig(connectCtx, poolCfg)
		cancel()

		if lastErr == nil {
			if pingErr := pool.Ping(ctx); pingErr != nil {
				pool.Close()
				lastErr = pingErr
			} else {
				db.Pool = pool
				logger.Info("database connected", map[string]interface{}{"attempt": attempt})
				return nil
			}
		}

		if attempt < db.Config.MaxRetries {
			delay := db.Config.RetryDelay * time.Duration(1<<uint(attempt-1))
			logger.Warn("database connect failed, retrying", map[string]interface{}{
				"attempt": attempt,
				"delay":   delay.String(),
				"error":   lastErr.Error(),
			})
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return fmt.Errorf("failed to connect after %d attempts: %w", db.Config.MaxRetries, lastErr)
}

// HealthCheck verifies database connectivity.
func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(healthCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

// Close releases the pool.
func (db *PostgresDB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
	}
}
