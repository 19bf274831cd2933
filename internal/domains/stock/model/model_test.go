package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMovementKindAllowsDelta(t *testing.T) {
	tests := []struct {
		kind  MovementKind
		delta int64
		want  bool
	}{
		{MovementPurchaseIn, 5, true},
		{MovementPurchaseIn, 0, false},
		{MovementPurchaseIn, -5, false},
		{MovementSaleOut, -5, true},
		{MovementSaleOut, 0, false},
		{MovementSaleOut, 5, false},
		{MovementAdjustment, 5, true},
		{MovementAdjustment, -5, true},
		{MovementAdjustment, 0, false},
		{MovementKind("TRANSFER"), 5, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.AllowsDelta(tt.delta),
			"%s with delta %d", tt.kind, tt.delta)
	}
}

func TestMovementKindIsValid(t *testing.T) {
	assert.True(t, MovementPurchaseIn.IsValid())
	assert.True(t, MovementSaleOut.IsValid())
	assert.True(t, MovementAdjustment.IsValid())
	assert.False(t, MovementKind("").IsValid())
	assert.False(t, MovementKind("TRANSFER").IsValid())
}

func TestAdjustRequestValidate(t *testing.T) {
	valid := AdjustRequest{
		ProductID:   uuid.New(),
		WarehouseID: uuid.New(),
		Delta:       -3,
		Reason:      "damaged in transit",
	}
	assert.NoError(t, valid.Validate())

	noProduct := valid
	noProduct.ProductID = uuid.Nil
	assert.Error(t, noProduct.Validate())

	noWarehouse := valid
	noWarehouse.WarehouseID = uuid.Nil
	assert.Error(t, noWarehouse.Validate())
}
