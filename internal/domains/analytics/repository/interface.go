package repository

import (
	"context"
	"time"

	"inventory-backend/internal/domains/analytics/model"

	"github.com/shopspring/decimal"
)

// LowStockRow is the raw low-stock query result before urgency classification.
type LowStockRow struct {
	Item      model.LowStockItem
	CostPrice decimal.Decimal
}

// RepositoryInterface is the analytics read-model contract. Every query is a
// pure function of the ledger and catalog; cancelled documents and their
// compensators are excluded from financial figures.
type RepositoryInterface interface {
	// LowStock returns active products whose total on-hand is at or below
	// their reorder level.
	LowStock(ctx context.Context) ([]LowStockRow, error)

	// DeadStock returns active products with positive stock and no SALE_OUT
	// newer than the cutoff.
	DeadStock(ctx context.Context, cutoff time.Time) ([]model.DeadStockItem, error)

	// PeriodStats computes revenue, purchase cost, COGS and sales count over
	// [from, to).
	PeriodStats(ctx context.Context, from, to time.Time) (*model.PeriodStats, error)

	// InventoryValue sums on_hand x cost_price over active products.
	InventoryValue(ctx context.Context) (decimal.Decimal, error)

	TopProducts(ctx context.Context, from, to time.Time, limit int) ([]model.TopProduct, error)
	CategoryPerformance(ctx context.Context, from, to time.Time) ([]model.CategoryPerformance, error)
	DailyTrend(ctx context.Context, from, to time.Time) ([]model.DailyTrendPoint, error)
}
