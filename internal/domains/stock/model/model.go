package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementKind classifies a ledger entry.
type MovementKind string

const (
	MovementPurchaseIn MovementKind = "PURCHASE_IN"
	MovementSaleOut    MovementKind = "SALE_OUT"
	MovementAdjustment MovementKind = "ADJUSTMENT"
)

func (k MovementKind) IsValid() bool {
	switch k {
	case MovementPurchaseIn, MovementSaleOut, MovementAdjustment:
		return true
	}
	return false
}

// AllowsDelta reports whether the sign of delta agrees with the kind:
// PURCHASE_IN is strictly positive, SALE_OUT strictly negative, ADJUSTMENT
// either way but never zero.
func (k MovementKind) AllowsDelta(delta int64) bool {
	switch k {
	case MovementPurchaseIn:
		return delta > 0
	case MovementSaleOut:
		return delta < 0
	case MovementAdjustment:
		return delta != 0
	}
	return false
}

// DocKind identifies the owning document of a movement.
type DocKind string

const (
	DocPurchase   DocKind = "PURCHASE"
	DocSale       DocKind = "SALE"
	DocAdjustment DocKind = "ADJUSTMENT"
)

// Movement is one immutable, append-only ledger entry.
type Movement struct {
	ID               int64            `json:"id"`
	ProductID        uuid.UUID        `json:"product_id"`
	WarehouseID      uuid.UUID        `json:"warehouse_id"`
	Delta            int64            `json:"delta"`
	Kind             MovementKind     `json:"kind"`
	DocKind          DocKind          `json:"doc_kind"`
	DocID            *uuid.UUID       `json:"doc_id,omitempty"`
	LineID           *uuid.UUID       `json:"line_id,omitempty"`
	UnitCostSnapshot *decimal.Decimal `json:"unit_cost_snapshot,omitempty"`
	Reason           string           `json:"reason,omitempty"`
	OccurredAt       time.Time        `json:"occurred_at"`
	Actor            uuid.UUID        `json:"actor"`
}

// Position is the materialized on-hand count for a (product, warehouse) pair.
// The ledger, not the position, is the source of truth; the two agree at every
// commit boundary.
type Position struct {
	ProductID   uuid.UUID `json:"product_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	OnHand      int64     `json:"on_hand"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WarehousePosition pairs a warehouse with its on-hand count for one product.
type WarehousePosition struct {
	WarehouseID   uuid.UUID `json:"warehouse_id"`
	WarehouseName string    `json:"warehouse_name"`
	OnHand        int64     `json:"on_hand"`
}

// AppendInput carries everything Append needs to write one movement. Reason
// is the operator's note on manual adjustments; document movements leave it
// empty and rely on the doc reference.
type AppendInput struct {
	ProductID        uuid.UUID
	WarehouseID      uuid.UUID
	Delta            int64
	Kind             MovementKind
	DocKind          DocKind
	DocID            *uuid.UUID
	LineID           *uuid.UUID
	UnitCostSnapshot *decimal.Decimal
	Reason           string
	Actor            uuid.UUID
}

// LedgerFilter narrows a ledger query. Results are ordered by
// (occurred_at, id) ascending so pagination is restartable.
type LedgerFilter struct {
	ProductID   *uuid.UUID
	WarehouseID *uuid.UUID
	Since       *time.Time
	Until       *time.Time
	Limit       int
	Offset      int
}

// Divergence reports a (product, warehouse) pair whose materialized position
// disagrees with the folded ledger.
type Divergence struct {
	ProductID   uuid.UUID `json:"product_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	OnHand      int64     `json:"on_hand"`
	LedgerSum   int64     `json:"ledger_sum"`
}
