package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the document lifecycle state. Posting is one step, so DRAFT never
// persists; it exists for completeness of the lifecycle.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPosted    Status = "POSTED"
	StatusCancelled Status = "CANCELLED"
)

// PurchaseHeader is a goods-inbound document header.
type PurchaseHeader struct {
	ID              uuid.UUID  `json:"id"`
	ReferenceNumber string     `json:"reference_number"`
	SupplierID      *uuid.UUID `json:"supplier_id,omitempty"`
	WarehouseID     uuid.UUID  `json:"warehouse_id"`
	Status          Status     `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Notes           string     `json:"notes,omitempty"`
	IsCompensation  bool       `json:"is_compensation"`
	CompensatesSaleID  *uuid.UUID `json:"compensates_sale_id,omitempty"`
	CancelledBySaleID  *uuid.UUID `json:"cancelled_by_sale_id,omitempty"`
	CreatedBy       uuid.UUID  `json:"created_by"`
	CreatedAt       time.Time  `json:"created_at"`
}

// PurchaseLine is one product position of a purchase.
type PurchaseLine struct {
	ID        uuid.UUID       `json:"id"`
	HeaderID  uuid.UUID       `json:"header_id"`
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	LineTotal decimal.Decimal `json:"line_total"`
	Notes     string          `json:"notes,omitempty"`
}

// Purchase is a header with its lines.
type Purchase struct {
	PurchaseHeader
	Lines []PurchaseLine `json:"lines"`
}

// SaleHeader is a goods-outbound document header.
type SaleHeader struct {
	ID            uuid.UUID  `json:"id"`
	InvoiceNumber string     `json:"invoice_number"`
	CustomerID    *uuid.UUID `json:"customer_id,omitempty"`
	WarehouseID   uuid.UUID  `json:"warehouse_id"`
	Status        Status     `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Notes         string     `json:"notes,omitempty"`
	IsCompensation bool      `json:"is_compensation"`
	CompensatesPurchaseID *uuid.UUID `json:"compensates_purchase_id,omitempty"`
	CancelledByPurchaseID *uuid.UUID `json:"cancelled_by_purchase_id,omitempty"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SaleLine is one product position of a sale. UnitCostSnapshot is the
// product's cost price at the moment of posting and backs COGS.
type SaleLine struct {
	ID               uuid.UUID       `json:"id"`
	HeaderID         uuid.UUID       `json:"header_id"`
	ProductID        uuid.UUID       `json:"product_id"`
	Quantity         int64           `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	UnitCostSnapshot decimal.Decimal `json:"unit_cost_snapshot"`
	LineTotal        decimal.Decimal `json:"line_total"`
}

// Sale is a header with its lines.
type Sale struct {
	SaleHeader
	Lines []SaleLine `json:"lines"`
}
