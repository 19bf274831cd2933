package repository

import (
	"context"

	"inventory-backend/internal/domains/alert/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RepositoryInterface is the alert persistence contract. The Tx variants run
// inside the posting transaction so alert transitions commit atomically with
// the movements that caused them.
type RepositoryInterface interface {
	// OpenTx inserts a new open alert. The partial unique index on
	// (product_id, kind) WHERE resolved_at IS NULL enforces deduplication; a
	// concurrent open surfaces as a unique violation.
	OpenTx(ctx context.Context, tx pgx.Tx, alert *model.Alert) error

	// HasOpenTx reports whether an open alert of the given kind exists.
	HasOpenTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, kind model.Kind) (bool, error)

	// ResolveOpenTx closes every open alert of the given kinds for a product
	// and returns the number closed.
	ResolveOpenTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, resolvedBy string, kinds ...model.Kind) (int64, error)

	// GetByID fetches one alert, resolved or not.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Alert, error)

	// Resolve closes an open alert by id. Returns the updated row, or the
	// unchanged row when it was already resolved.
	Resolve(ctx context.Context, id uuid.UUID, resolvedBy string) (*model.Alert, error)

	// List returns alerts matching the status filter, newest first.
	List(ctx context.Context, status model.StatusFilter) ([]model.Alert, error)

	// SweepResolved deletes resolved alerts older than the retention window
	// and returns the number removed.
	SweepResolved(ctx context.Context, retentionDays int) (int64, error)
}
