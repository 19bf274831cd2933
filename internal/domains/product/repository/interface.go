package repository

import (
	"context"

	"inventory-backend/internal/domains/product/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// RepositoryInterface is the product persistence contract. The Tx variants are
// used by document posting so price snapshots and alert thresholds are read
// under the same transaction as the movements they inform.
type RepositoryInterface interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetByCode(ctx context.Context, code string) (*model.Product, error)
	ListActive(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error

	// SetActive flips the soft-delete flag.
	SetActive(ctx context.Context, id uuid.UUID, active bool) error

	// HasMovements reports whether any ledger entry references the product.
	HasMovements(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete removes a product row. Only valid for products with no ledger
	// history; the movement FK blocks anything else.
	Delete(ctx context.Context, id uuid.UUID) error

	// GetTx reads the full product row inside the caller's transaction.
	GetTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Product, error)

	// AlertViewTx reads the code and reorder level inside the caller's
	// transaction for the alert engine.
	AlertViewTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.AlertView, error)

	// UpdateCostPriceTx overwrites cost_price inside the posting transaction
	// (last-received wins).
	UpdateCostPriceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, costPrice decimal.Decimal) error
}
