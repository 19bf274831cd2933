package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseLineInput is one line of a purchase post request.
type PurchaseLineInput struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Notes     string          `json:"notes"`
}

// PostPurchaseRequest is the POST /purchases body. ReferenceNumber is
// optional; when absent one is generated.
type PostPurchaseRequest struct {
	SupplierID      uuid.UUID           `json:"supplier_id"`
	WarehouseID     uuid.UUID           `json:"warehouse_id"`
	ReferenceNumber string              `json:"reference_number"`
	Notes           string              `json:"notes"`
	Lines           []PurchaseLineInput `json:"lines"`
}

func (r PostPurchaseRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.SupplierID, validation.Required),
		validation.Field(&r.WarehouseID, validation.Required),
		validation.Field(&r.Lines, validation.Required, validation.Length(1, 0)),
	)
	if err != nil {
		return err
	}
	for _, line := range r.Lines {
		if line.ProductID == uuid.Nil {
			return validation.NewError("validation_product", "line product_id is required")
		}
		if line.Quantity <= 0 {
			return validation.NewError("validation_quantity", "line quantity must be positive")
		}
		if line.UnitCost.IsNegative() {
			return validation.NewError("validation_unit_cost", "line unit_cost must not be negative")
		}
	}
	return nil
}

// MergedLines collapses duplicate products deterministically: quantities sum,
// the unit cost becomes the quantity-weighted average. Order follows the first
// appearance of each product.
func (r PostPurchaseRequest) MergedLines() []PurchaseLineInput {
	order := make([]uuid.UUID, 0, len(r.Lines))
	byProduct := make(map[uuid.UUID]PurchaseLineInput, len(r.Lines))

	for _, line := range r.Lines {
		existing, ok := byProduct[line.ProductID]
		if !ok {
			order = append(order, line.ProductID)
			byProduct[line.ProductID] = line
			continue
		}
		totalQty := existing.Quantity + line.Quantity
		weighted := existing.UnitCost.Mul(decimal.NewFromInt(existing.Quantity)).
			Add(line.UnitCost.Mul(decimal.NewFromInt(line.Quantity))).
			Div(decimal.NewFromInt(totalQty)).
			Round(2)
		existing.Quantity = totalQty
		existing.UnitCost = weighted
		if line.Notes != "" {
			existing.Notes = line.Notes
		}
		byProduct[line.ProductID] = existing
	}

	merged := make([]PurchaseLineInput, 0, len(order))
	for _, id := range order {
		merged = append(merged, byProduct[id])
	}
	return merged
}

// SaleLineInput is one line of a sale post request. UnitPrice is optional;
// when absent the product's current selling price applies.
type SaleLineInput struct {
	ProductID uuid.UUID        `json:"product_id"`
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// PostSaleRequest is the POST /sales body.
type PostSaleRequest struct {
	CustomerID    uuid.UUID       `json:"customer_id"`
	WarehouseID   uuid.UUID       `json:"warehouse_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Notes         string          `json:"notes"`
	Lines         []SaleLineInput `json:"lines"`
}

func (r PostSaleRequest) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.CustomerID, validation.Required),
		validation.Field(&r.WarehouseID, validation.Required),
		validation.Field(&r.Lines, validation.Required, validation.Length(1, 0)),
	)
	if err != nil {
		return err
	}
	for _, line := range r.Lines {
		if line.ProductID == uuid.Nil {
			return validation.NewError("validation_product", "line product_id is required")
		}
		if line.Quantity <= 0 {
			return validation.NewError("validation_quantity", "line quantity must be positive")
		}
		if line.UnitPrice != nil && line.UnitPrice.IsNegative() {
			return validation.NewError("validation_unit_price", "line unit_price must not be negative")
		}
	}
	return nil
}

// MergedLines collapses duplicate products: quantities sum, the last explicit
// unit price in input order wins. Order follows first appearance.
func (r PostSaleRequest) MergedLines() []SaleLineInput {
	order := make([]uuid.UUID, 0, len(r.Lines))
	byProduct := make(map[uuid.UUID]SaleLineInput, len(r.Lines))

	for _, line := range r.Lines {
		existing, ok := byProduct[line.ProductID]
		if !ok {
			order = append(order, line.ProductID)
			byProduct[line.ProductID] = line
			continue
		}
		existing.Quantity += line.Quantity
		if line.UnitPrice != nil {
			existing.UnitPrice = line.UnitPrice
		}
		byProduct[line.ProductID] = existing
	}

	merged := make([]SaleLineInput, 0, len(order))
	for _, id := range order {
		merged = append(merged, byProduct[id])
	}
	return merged
}

// ListFilter narrows document listings, newest first. Status empty means any
// status; PartyID matches the supplier on purchases and the customer on sales.
// Compensating documents are hidden unless IncludeCompensations is set.
type ListFilter struct {
	Status               Status
	PartyID              *uuid.UUID
	Since                *time.Time
	Until                *time.Time
	IncludeCompensations bool
	Limit                int
	Offset               int
}

// TouchedProducts returns the distinct product ids of a line set in stable
// order, for the per-product alert check after posting.
func TouchedProducts(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	distinct := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	return distinct
}
