package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is one sellable item in the catalog.
type Product struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	SupplierID    *uuid.UUID      `json:"supplier_id,omitempty"`
	Unit          string          `json:"unit"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	ReorderLevel  int64           `json:"reorder_level"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// StockView pairs a product with its per-warehouse positions and total.
type StockView struct {
	Product
	TotalOnHand int64           `json:"total_on_hand"`
	Warehouses  []WarehouseStock `json:"warehouses"`
}

// WarehouseStock is one warehouse's share of a product's stock.
type WarehouseStock struct {
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name"`
	OnHand        int64     `json:"on_hand"`
}

// AlertView is the slice of a product the alert engine needs: the code for
// messages and the reorder threshold, read inside the posting transaction.
type AlertView struct {
	ID           uuid.UUID
	Code         string
	ReorderLevel int64
}

// CreateProductRequest is the POST /products body.
type CreateProductRequest struct {
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	SupplierID   *uuid.UUID      `json:"supplier_id"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	ReorderLevel int64           `json:"reorder_level"`
}

func (r CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required, validation.Length(1, 64)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&r.Unit, validation.Length(0, 32)),
	)
}

// UpdateProductRequest is the PUT /products/:id body. Nil fields are left
// unchanged.
type UpdateProductRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	CategoryID   *uuid.UUID       `json:"category_id"`
	SupplierID   *uuid.UUID       `json:"supplier_id"`
	Unit         *string          `json:"unit"`
	CostPrice    *decimal.Decimal `json:"cost_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	ReorderLevel *int64           `json:"reorder_level"`
	IsActive     *bool            `json:"is_active"`
}
