package service

import (
	"context"

	"inventory-backend/internal/domains/alert/model"
	"inventory-backend/internal/domains/alert/repository"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductState is the post-movement candidate state the engine evaluates:
// total on-hand across all warehouses against the product's reorder level.
type ProductState struct {
	ProductID    uuid.UUID
	Code         string
	ReorderLevel int64
	TotalOnHand  int64
}

// ServiceInterface drives alert transitions and manual resolution.
type ServiceInterface interface {
	// CheckProductTx applies the transition rules inside the caller's posting
	// transaction, so alerts commit or roll back with the movements that
	// triggered them.
	CheckProductTx(ctx context.Context, tx pgx.Tx, state ProductState) error

	// Resolve closes an alert by id. Idempotent: re-resolving returns the
	// existing record unchanged.
	Resolve(ctx context.Context, req model.ResolveRequest) (*model.Alert, error)

	// List returns alerts matching the status filter, each classified by
	// urgency from its observed values. The listing is an audit view: urgency
	// reflects the on-hand recorded when the alert opened, not the live count,
	// so a resolved or stale alert keeps the severity it was raised with.
	List(ctx context.Context, status model.StatusFilter) ([]model.ListItem, error)

	// SweepResolved prunes resolved alerts past the retention window.
	SweepResolved(ctx context.Context, retentionDays int) (int64, error)
}

type alertService struct {
	repo repository.RepositoryInterface
}

// NewAlertService creates the alert engine.
func NewAlertService(repo repository.RepositoryInterface) ServiceInterface {
	return &alertService{repo: repo}
}

// CheckProductTx evaluates the product after a movement:
//
//   - total = 0: open OUT_OF_STOCK (unless already open), resolve LOW_STOCK.
//   - 0 < total <= reorder level: open LOW_STOCK (unless already open),
//     resolve OUT_OF_STOCK.
//   - total > reorder level: resolve both kinds.
//
// At most one open alert per (product, kind) holds throughout.
func (s *alertService) CheckProductTx(ctx context.Context, tx pgx.Tx, state ProductState) error {
	switch {
	case state.TotalOnHand == 0:
		if _, err := s.repo.ResolveOpenTx(ctx, tx, state.ProductID, model.ResolvedBySystem, model.KindLowStock); err != nil {
			return err
		}
		return s.openUnlessExists(ctx, tx, state, model.KindOutOfStock,
			model.OutOfStockMessage(state.Code))

	case state.TotalOnHand <= state.ReorderLevel:
		if _, err := s.repo.ResolveOpenTx(ctx, tx, state.ProductID, model.ResolvedBySystem, model.KindOutOfStock); err != nil {
			return err
		}
		return s.openUnlessExists(ctx, tx, state, model.KindLowStock,
			model.LowStockMessage(state.Code, state.TotalOnHand, state.ReorderLevel))

	default:
		_, err := s.repo.ResolveOpenTx(ctx, tx, state.ProductID, model.ResolvedBySystem,
			model.KindLowStock, model.KindOutOfStock)
		return err
	}
}

func (s *alertService) openUnlessExists(ctx context.Context, tx pgx.Tx, state ProductState, kind model.Kind, message string) error {
	open, err := s.repo.HasOpenTx(ctx, tx, state.ProductID, kind)
	if err != nil {
		return err
	}
	if open {
		return nil
	}
	return s.repo.OpenTx(ctx, tx, &model.Alert{
		ProductID:            state.ProductID,
		Kind:                 kind,
		Message:              message,
		ObservedOnHand:       state.TotalOnHand,
		ObservedReorderLevel: state.ReorderLevel,
	})
}

func (s *alertService) Resolve(ctx context.Context, req model.ResolveRequest) (*model.Alert, error) {
	if req.AlertID == uuid.Nil {
		return nil, apperr.Validation("alertId", "is required")
	}
	if req.ResolvedBy == "" {
		return nil, apperr.Validation("resolvedBy", "is required")
	}
	return s.repo.Resolve(ctx, req.AlertID, req.ResolvedBy)
}

func (s *alertService) List(ctx context.Context, status model.StatusFilter) ([]model.ListItem, error) {
	if !status.IsValid() {
		return nil, apperr.Validation("status", "must be unresolved, resolved or all")
	}

	alerts, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, err
	}

	items := make([]model.ListItem, 0, len(alerts))
	for _, a := range alerts {
		items = append(items, model.ListItem{
			Alert:   a,
			Urgency: model.ClassifyUrgency(a.ObservedOnHand, a.ObservedReorderLevel),
		})
	}
	return items, nil
}

func (s *alertService) SweepResolved(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.SweepResolved(ctx, retentionDays)
}
