package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind classifies an alert.
type Kind string

const (
	KindLowStock   Kind = "LOW_STOCK"
	KindOutOfStock Kind = "OUT_OF_STOCK"
)

// Urgency buckets an alert for the read side.
type Urgency string

const (
	UrgencyCritical Urgency = "CRITICAL"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyMedium   Urgency = "MEDIUM"
)

// ResolvedBySystem marks alerts closed automatically by a stock transition.
const ResolvedBySystem = "system"

// Alert is one reorder or out-of-stock notification. At most one open alert
// per (product, kind) exists at any time; resolution is monotonic — a closed
// alert is never reopened, a fresh one is opened instead.
type Alert struct {
	ID                   uuid.UUID  `json:"id"`
	ProductID            uuid.UUID  `json:"product_id"`
	ProductCode          string     `json:"product_code,omitempty"`
	ProductName          string     `json:"product_name,omitempty"`
	Kind                 Kind       `json:"kind"`
	Message              string     `json:"message"`
	ObservedOnHand       int64      `json:"observed_on_hand"`
	ObservedReorderLevel int64      `json:"observed_reorder_level"`
	OpenedAt             time.Time  `json:"opened_at"`
	ResolvedAt           *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy           *string    `json:"resolved_by,omitempty"`
}

// ClassifyUrgency buckets the observed values: CRITICAL at zero, HIGH at or
// below half the reorder level, MEDIUM otherwise.
func ClassifyUrgency(onHand, reorderLevel int64) Urgency {
	switch {
	case onHand == 0:
		return UrgencyCritical
	case onHand*2 <= reorderLevel:
		return UrgencyHigh
	default:
		return UrgencyMedium
	}
}

// OutOfStockMessage builds the canonical out-of-stock alert message.
func OutOfStockMessage(code string) string {
	return fmt.Sprintf("Product %s is OUT OF STOCK", code)
}

// LowStockMessage builds the canonical low-stock alert message.
func LowStockMessage(code string, onHand, reorderLevel int64) string {
	return fmt.Sprintf("Product %s at %d units, reorder level %d", code, onHand, reorderLevel)
}

// StatusFilter selects which alerts to list.
type StatusFilter string

const (
	StatusUnresolved StatusFilter = "unresolved"
	StatusResolved   StatusFilter = "resolved"
	StatusAll        StatusFilter = "all"
)

func (s StatusFilter) IsValid() bool {
	switch s {
	case StatusUnresolved, StatusResolved, StatusAll:
		return true
	}
	return false
}

// ListItem is an alert enriched with its urgency for the list endpoint.
type ListItem struct {
	Alert
	Urgency Urgency `json:"urgency"`
}

// ResolveRequest is the PATCH body for manual resolution.
type ResolveRequest struct {
	AlertID    uuid.UUID `json:"alertId"`
	ResolvedBy string    `json:"resolvedBy"`
}
