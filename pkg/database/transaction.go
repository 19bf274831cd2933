package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Beginner starts transactions. *pgxpool.Pool satisfies it; services depend on
// this instead of the pool so their transactional flows run against any tx
// source.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxFunc is the function type executed inside a transaction.
type TxFunc func(pgx.Tx) error

// WithTransaction runs fn inside a transaction begun on db. The transaction
// is rolled back on error or panic and committed otherwise, so a partial write
// is never visible outside fn.
func WithTransaction(ctx context.Context, db Beginner, fn TxFunc) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(tx)
	if err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithTransactionResult wraps a function returning a value in a transaction.
func WithTransactionResult[T any](ctx context.Context, db Beginner, fn func(pgx.Tx) (T, error)) (T, error) {
	var result T
	var fnErr error

	err := WithTransaction(ctx, db, func(tx pgx.Tx) error {
		result, fnErr = fn(tx)
		return fnErr
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
