package repository

import (
	"context"
	"time"

	"inventory-backend/internal/domains/analytics/model"
	"inventory-backend/internal/shared/apperr"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type analyticsRepository struct {
	db *pgxpool.Pool
}

// NewAnalyticsRepository creates a new analytics repository backed by Postgres.
func NewAnalyticsRepository(db *pgxpool.Pool) RepositoryInterface {
	return &analyticsRepository{db: db}
}

// Cancelled documents and their compensators are excluded from every
// financial figure.
const postedSales = "sh.status = 'POSTED' AND NOT sh.is_compensation"
const postedPurchases = "ph.status = 'POSTED' AND NOT ph.is_compensation"

func (r *analyticsRepository) LowStock(ctx context.Context) ([]LowStockRow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.code, p.name, COALESCE(SUM(ps.on_hand), 0), p.reorder_level, p.cost_price
		FROM products p
		LEFT JOIN product_stocks ps ON ps.product_id = p.id
		WHERE p.is_active
		GROUP BY p.id
		HAVING COALESCE(SUM(ps.on_hand), 0) <= p.reorder_level
		ORDER BY COALESCE(SUM(ps.on_hand), 0), p.code`)
	if err != nil {
		return nil, apperr.FromPg(err, "low-stock")
	}
	defer rows.Close()

	result := make([]LowStockRow, 0)
	for rows.Next() {
		var row LowStockRow
		if err := rows.Scan(&row.Item.ProductID, &row.Item.Code, &row.Item.Name,
			&row.Item.TotalOnHand, &row.Item.ReorderLevel, &row.CostPrice); err != nil {
			return nil, apperr.FromPg(err, "low-stock")
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "low-stock")
	}
	return result, nil
}

func (r *analyticsRepository) DeadStock(ctx context.Context, cutoff time.Time) ([]model.DeadStockItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.code, p.name, COALESCE(SUM(ps.on_hand), 0), p.cost_price, ls.last_sale
		FROM products p
		LEFT JOIN product_stocks ps ON ps.product_id = p.id
		LEFT JOIN (
			SELECT product_id, MAX(occurred_at) AS last_sale
			FROM stock_movements
			WHERE kind = 'SALE_OUT'
			GROUP BY product_id
		) ls ON ls.product_id = p.id
		WHERE p.is_active
		GROUP BY p.id, ls.last_sale
		HAVING COALESCE(SUM(ps.on_hand), 0) > 0
		   AND (ls.last_sale IS NULL OR ls.last_sale <= $1)
		ORDER BY ls.last_sale ASC NULLS FIRST, p.code`,
		cutoff)
	if err != nil {
		return nil, apperr.FromPg(err, "dead-stock")
	}
	defer rows.Close()

	items := make([]model.DeadStockItem, 0)
	for rows.Next() {
		var item model.DeadStockItem
		if err := rows.Scan(&item.ProductID, &item.Code, &item.Name, &item.TotalOnHand,
			&item.CostPrice, &item.LastSaleAt); err != nil {
			return nil, apperr.FromPg(err, "dead-stock")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "dead-stock")
	}
	return items, nil
}

func (r *analyticsRepository) PeriodStats(ctx context.Context, from, to time.Time) (*model.PeriodStats, error) {
	var stats model.PeriodStats

	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(si.line_total), 0),
		       COALESCE(SUM(si.unit_cost_snapshot * si.quantity), 0),
		       COUNT(DISTINCT sh.id)
		FROM sale_headers sh
		JOIN sale_items si ON si.header_id = sh.id
		WHERE `+postedSales+` AND sh.created_at >= $1 AND sh.created_at < $2`,
		from, to).
		Scan(&stats.SalesRevenue, &stats.COGS, &stats.SalesCount)
	if err != nil {
		return nil, apperr.FromPg(err, "dashboard")
	}

	err = r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(pi.line_total), 0)
		FROM purchase_headers ph
		JOIN purchase_items pi ON pi.header_id = ph.id
		WHERE `+postedPurchases+` AND ph.created_at >= $1 AND ph.created_at < $2`,
		from, to).
		Scan(&stats.PurchasesCost)
	if err != nil {
		return nil, apperr.FromPg(err, "dashboard")
	}

	stats.GrossProfit = stats.SalesRevenue.Sub(stats.COGS)
	return &stats, nil
}

func (r *analyticsRepository) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var value decimal.Decimal
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(ps.on_hand * p.cost_price), 0)
		FROM product_stocks ps
		JOIN products p ON p.id = ps.product_id
		WHERE p.is_active`).
		Scan(&value)
	if err != nil {
		return decimal.Zero, apperr.FromPg(err, "dashboard")
	}
	return value, nil
}

func (r *analyticsRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]model.TopProduct, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.code, p.name, SUM(si.quantity), SUM(si.line_total)
		FROM sale_items si
		JOIN sale_headers sh ON sh.id = si.header_id
		JOIN products p ON p.id = si.product_id
		WHERE `+postedSales+` AND sh.created_at >= $1 AND sh.created_at < $2
		GROUP BY p.id
		ORDER BY SUM(si.line_total) DESC, p.code
		LIMIT $3`,
		from, to, limit)
	if err != nil {
		return nil, apperr.FromPg(err, "top products")
	}
	defer rows.Close()

	products := make([]model.TopProduct, 0)
	for rows.Next() {
		var tp model.TopProduct
		if err := rows.Scan(&tp.ProductID, &tp.Code, &tp.Name, &tp.QuantitySold, &tp.Revenue); err != nil {
			return nil, apperr.FromPg(err, "top products")
		}
		products = append(products, tp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "top products")
	}
	return products, nil
}

func (r *analyticsRepository) CategoryPerformance(ctx context.Context, from, to time.Time) ([]model.CategoryPerformance, error) {
	rows, err := r.db.Query(ctx, `
		SELECT COALESCE(c.name, 'Uncategorized'), SUM(si.quantity), SUM(si.line_total)
		FROM sale_items si
		JOIN sale_headers sh ON sh.id = si.header_id
		JOIN products p ON p.id = si.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE `+postedSales+` AND sh.created_at >= $1 AND sh.created_at < $2
		GROUP BY c.name
		ORDER BY SUM(si.line_total) DESC`,
		from, to)
	if err != nil {
		return nil, apperr.FromPg(err, "category performance")
	}
	defer rows.Close()

	categories := make([]model.CategoryPerformance, 0)
	for rows.Next() {
		var cp model.CategoryPerformance
		if err := rows.Scan(&cp.CategoryName, &cp.QuantitySold, &cp.Revenue); err != nil {
			return nil, apperr.FromPg(err, "category performance")
		}
		categories = append(categories, cp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "category performance")
	}
	return categories, nil
}

func (r *analyticsRepository) DailyTrend(ctx context.Context, from, to time.Time) ([]model.DailyTrendPoint, error) {
	rows, err := r.db.Query(ctx, `
		SELECT date_trunc('day', sh.created_at), SUM(si.line_total), COUNT(DISTINCT sh.id)
		FROM sale_headers sh
		JOIN sale_items si ON si.header_id = sh.id
		WHERE `+postedSales+` AND sh.created_at >= $1 AND sh.created_at < $2
		GROUP BY date_trunc('day', sh.created_at)
		ORDER BY date_trunc('day', sh.created_at)`,
		from, to)
	if err != nil {
		return nil, apperr.FromPg(err, "daily trend")
	}
	defer rows.Close()

	points := make([]model.DailyTrendPoint, 0)
	for rows.Next() {
		var p model.DailyTrendPoint
		if err := rows.Scan(&p.Day, &p.Revenue, &p.SalesCount); err != nil {
			return nil, apperr.FromPg(err, "daily trend")
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "daily trend")
	}
	return points, nil
}
