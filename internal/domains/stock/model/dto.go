package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// AdjustRequest is the body of a manual stock adjustment. Delta may be either
// sign but never zero; a negative adjustment that would drive the position
// below zero is rejected.
type AdjustRequest struct {
	ProductID   uuid.UUID `json:"product_id"`
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Delta       int64     `json:"delta"`
	Reason      string    `json:"reason"`
}

func (r AdjustRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ProductID, validation.Required),
		validation.Field(&r.WarehouseID, validation.Required),
		validation.Field(&r.Reason, validation.Length(0, 500)),
	)
}

// VerifyReport is the invariant-check result: every divergent pair plus the
// count scanned.
type VerifyReport struct {
	Consistent  bool         `json:"consistent"`
	Divergences []Divergence `json:"divergences"`
}
