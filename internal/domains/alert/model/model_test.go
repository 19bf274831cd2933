package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		name         string
		onHand       int64
		reorderLevel int64
		want         Urgency
	}{
		{"zero on hand is critical", 0, 10, UrgencyCritical},
		{"zero on hand with zero reorder level is critical", 0, 0, UrgencyCritical},
		{"at half the reorder level is high", 5, 10, UrgencyHigh},
		{"below half the reorder level is high", 3, 10, UrgencyHigh},
		{"just above half is medium", 6, 10, UrgencyMedium},
		{"at the reorder level is medium", 10, 10, UrgencyMedium},
		{"odd reorder level rounds against high", 3, 5, UrgencyMedium},
		{"odd reorder level half is high", 2, 5, UrgencyHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyUrgency(tt.onHand, tt.reorderLevel))
		})
	}
}

func TestAlertMessages(t *testing.T) {
	assert.Equal(t, "Product SKU-001 is OUT OF STOCK", OutOfStockMessage("SKU-001"))
	assert.Equal(t, "Product SKU-001 at 3 units, reorder level 10", LowStockMessage("SKU-001", 3, 10))
}

func TestStatusFilterIsValid(t *testing.T) {
	assert.True(t, StatusUnresolved.IsValid())
	assert.True(t, StatusResolved.IsValid())
	assert.True(t, StatusAll.IsValid())
	assert.False(t, StatusFilter("").IsValid())
	assert.False(t, StatusFilter("open").IsValid())
}
