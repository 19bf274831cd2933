package model

import (
	"errors"
	"fmt"
)

// ErrInvalidMovement is returned when the delta sign disagrees with the
// movement kind, or the delta is zero.
var ErrInvalidMovement = errors.New("invalid movement: delta sign does not match kind")

// NewInvalidMovementError details the offending delta/kind pair.
func NewInvalidMovementError(kind MovementKind, delta int64) error {
	return fmt.Errorf("%w: kind=%s delta=%d", ErrInvalidMovement, kind, delta)
}
