package repository

import (
	"context"

	"inventory-backend/internal/domains/document/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RepositoryInterface is the document persistence contract. Everything that
// participates in posting runs on the caller's transaction so a failed post
// leaves no header, line or movement behind.
type RepositoryInterface interface {
	CreatePurchaseHeaderTx(ctx context.Context, tx pgx.Tx, header *model.PurchaseHeader) error
	CreatePurchaseLineTx(ctx context.Context, tx pgx.Tx, line *model.PurchaseLine) error
	SetPurchaseTotalTx(ctx context.Context, tx pgx.Tx, header *model.PurchaseHeader) error
	GetPurchaseTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Purchase, error)
	MarkPurchaseCancelledTx(ctx context.Context, tx pgx.Tx, id, compensatorSaleID uuid.UUID) error

	CreateSaleHeaderTx(ctx context.Context, tx pgx.Tx, header *model.SaleHeader) error
	CreateSaleLineTx(ctx context.Context, tx pgx.Tx, line *model.SaleLine) error
	SetSaleTotalTx(ctx context.Context, tx pgx.Tx, header *model.SaleHeader) error
	GetSaleTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Sale, error)
	MarkSaleCancelledTx(ctx context.Context, tx pgx.Tx, id, compensatorPurchaseID uuid.UUID) error

	GetPurchase(ctx context.Context, id uuid.UUID) (*model.Purchase, error)
	ListPurchases(ctx context.Context, filter model.ListFilter) ([]model.Purchase, int64, error)
	GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	ListSales(ctx context.Context, filter model.ListFilter) ([]model.Sale, int64, error)

	// Existence probes used to fail fast with a typed not-found before any
	// row is written.
	SupplierExistsTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
	CustomerExistsTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
	WarehouseExistsTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}
