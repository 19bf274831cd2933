package model

import (
	"time"

	alertmodel "inventory-backend/internal/domains/alert/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NeverSold is the days-since-last-sale display value for products with no
// SALE_OUT movement at all.
const NeverSold = "Never Sold"

// Restock recommendation buckets by age of the last sale.
const (
	RecommendMonitor   = "Monitor closely"
	RecommendPromote   = "Consider promotion or discount"
	RecommendClearance = "Clearance sale or return to supplier"
)

// LowStockItem is one row of the low-stock read-model.
type LowStockItem struct {
	ProductID              uuid.UUID          `json:"product_id"`
	Code                   string             `json:"code"`
	Name                   string             `json:"name"`
	TotalOnHand            int64              `json:"total_on_hand"`
	ReorderLevel           int64              `json:"reorder_level"`
	Urgency                alertmodel.Urgency `json:"urgency"`
	UnitsNeeded            int64              `json:"units_needed"`
	SuggestedOrderQuantity int64              `json:"suggested_order_quantity"`
	EstimatedRestockCost   decimal.Decimal    `json:"estimated_restock_cost"`
}

// LowStockSummary aggregates the list for the response envelope.
type LowStockSummary struct {
	Total              int             `json:"total"`
	Critical           int             `json:"critical"`
	High               int             `json:"high"`
	Medium             int             `json:"medium"`
	TotalEstimatedCost decimal.Decimal `json:"total_estimated_cost"`
}

// DeadStockItem is one row of the dead-stock read-model.
type DeadStockItem struct {
	ProductID         uuid.UUID       `json:"product_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	TotalOnHand       int64           `json:"total_on_hand"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	DeadStockValue    decimal.Decimal `json:"dead_stock_value"`
	LastSaleAt        *time.Time      `json:"last_sale_at,omitempty"`
	DaysSinceLastSale string          `json:"days_since_last_sale"`
	Recommendation    string          `json:"recommendation"`
}

// DeadStockSummary aggregates the list for the response envelope.
type DeadStockSummary struct {
	Total      int             `json:"total"`
	TotalValue decimal.Decimal `json:"total_value"`
	Days       int             `json:"days"`
}

// PeriodStats is the dashboard figure set for one time range.
type PeriodStats struct {
	SalesRevenue  decimal.Decimal `json:"sales_revenue"`
	PurchasesCost decimal.Decimal `json:"purchases_cost"`
	COGS          decimal.Decimal `json:"cogs"`
	GrossProfit   decimal.Decimal `json:"gross_profit"`
	SalesCount    int64           `json:"sales_count"`
}

// Dashboard bundles week, month and year scopes in one response. Week is only
// present when the caller supplied an ISO week number.
type Dashboard struct {
	Week           *PeriodStats    `json:"week,omitempty"`
	Month          PeriodStats     `json:"month"`
	Year           PeriodStats     `json:"year"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	CurrencyCode   string          `json:"currency_code"`
}

// TopProduct is one row of the monthly top-10 by revenue.
type TopProduct struct {
	ProductID    uuid.UUID       `json:"product_id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// CategoryPerformance is one row of the monthly per-category aggregate.
type CategoryPerformance struct {
	CategoryName string          `json:"category_name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DailyTrendPoint is one day of the monthly sales trend.
type DailyTrendPoint struct {
	Day        time.Time       `json:"day"`
	Revenue    decimal.Decimal `json:"revenue"`
	SalesCount int64           `json:"sales_count"`
}

// MonthlySales is the full monthly report.
type MonthlySales struct {
	Year         int                   `json:"year"`
	Month        int                   `json:"month"`
	Summary      PeriodStats           `json:"summary"`
	TopProducts  []TopProduct          `json:"top_products"`
	Categories   []CategoryPerformance `json:"category_performance"`
	DailyTrend   []DailyTrendPoint     `json:"daily_trend"`
	CurrencyCode string                `json:"currency_code"`
}
