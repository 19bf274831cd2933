package repository

import (
	"context"

	"inventory-backend/internal/domains/stock/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RepositoryInterface is the stock ledger contract. The Tx variants run inside
// a caller-owned transaction so document posting can append movements and read
// positions atomically with its own writes.
type RepositoryInterface interface {
	// AppendTx writes one movement and updates the materialized position in
	// the same transaction. The position row is locked FOR UPDATE; a movement
	// that would drive it negative fails with InsufficientStock and nothing
	// is written.
	AppendTx(ctx context.Context, tx pgx.Tx, input model.AppendInput) (*model.Movement, error)

	// TotalOnHandTx sums on-hand across all warehouses for a product, inside
	// the caller's transaction. Missing rows count as zero.
	TotalOnHandTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (int64, error)

	// Position reads the materialized count for one (product, warehouse) pair.
	Position(ctx context.Context, productID, warehouseID uuid.UUID) (*model.Position, error)

	// PositionsForProduct lists per-warehouse counts for one product.
	PositionsForProduct(ctx context.Context, productID uuid.UUID) ([]model.WarehousePosition, error)

	// Ledger pages through movements ordered by (occurred_at, id).
	Ledger(ctx context.Context, filter model.LedgerFilter) ([]model.Movement, int64, error)

	// Verify folds the ledger and reports every pair whose materialized
	// position disagrees with the sum.
	Verify(ctx context.Context) ([]model.Divergence, error)

	// Rebuild recomputes every position from the ledger and returns the number
	// of rows rewritten.
	Rebuild(ctx context.Context) (int64, error)
}
