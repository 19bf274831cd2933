package service

import (
	"context"

	alertservice "inventory-backend/internal/domains/alert/service"
	productrepo "inventory-backend/internal/domains/product/repository"
	"inventory-backend/internal/domains/stock/model"
	"inventory-backend/internal/domains/stock/repository"
	"inventory-backend/internal/shared/apperr"
	"inventory-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ServiceInterface is the stock ledger contract exposed to handlers and jobs.
type ServiceInterface interface {
	// Adjust appends a manual ADJUSTMENT movement and runs the alert check in
	// the same transaction.
	Adjust(ctx context.Context, req model.AdjustRequest, actor uuid.UUID) (*model.Movement, error)

	// Ledger pages through movements.
	Ledger(ctx context.Context, filter model.LedgerFilter) ([]model.Movement, int64, error)

	// Position reads the materialized count for one (product, warehouse) pair.
	Position(ctx context.Context, productID, warehouseID uuid.UUID) (*model.Position, error)

	// PositionsForProduct lists per-warehouse counts for one product.
	PositionsForProduct(ctx context.Context, productID uuid.UUID) ([]model.WarehousePosition, error)

	// Verify checks that every materialized position equals its ledger fold.
	Verify(ctx context.Context) (*model.VerifyReport, error)

	// Rebuild recomputes positions from the ledger.
	Rebuild(ctx context.Context) (int64, error)
}

type stockService struct {
	db          database.Beginner
	repo        repository.RepositoryInterface
	productRepo productrepo.RepositoryInterface
	alerts      alertservice.ServiceInterface
}

// NewStockService creates the stock service.
func NewStockService(
	db database.Beginner,
	repo repository.RepositoryInterface,
	productRepo productrepo.RepositoryInterface,
	alerts alertservice.ServiceInterface,
) ServiceInterface {
	return &stockService{db: db, repo: repo, productRepo: productRepo, alerts: alerts}
}

func (s *stockService) Adjust(ctx context.Context, req model.AdjustRequest, actor uuid.UUID) (*model.Movement, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("adjustment", err.Error())
	}
	if req.Delta == 0 {
		return nil, apperr.Validation("delta", "must not be zero")
	}

	return database.WithTransactionResult(ctx, s.db, func(tx pgx.Tx) (*model.Movement, error) {
		view, err := s.productRepo.AlertViewTx(ctx, tx, req.ProductID)
		if err != nil {
			return nil, err
		}

		mv, err := s.repo.AppendTx(ctx, tx, model.AppendInput{
			ProductID:   req.ProductID,
			WarehouseID: req.WarehouseID,
			Delta:       req.Delta,
			Kind:        model.MovementAdjustment,
			DocKind:     model.DocAdjustment,
			Reason:      req.Reason,
			Actor:       actor,
		})
		if err != nil {
			return nil, err
		}

		total, err := s.repo.TotalOnHandTx(ctx, tx, req.ProductID)
		if err != nil {
			return nil, err
		}

		err = s.alerts.CheckProductTx(ctx, tx, alertservice.ProductState{
			ProductID:    view.ID,
			Code:         view.Code,
			ReorderLevel: view.ReorderLevel,
			TotalOnHand:  total,
		})
		if err != nil {
			return nil, err
		}
		return mv, nil
	})
}

func (s *stockService) Ledger(ctx context.Context, filter model.LedgerFilter) ([]model.Movement, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.Ledger(ctx, filter)
}

func (s *stockService) Position(ctx context.Context, productID, warehouseID uuid.UUID) (*model.Position, error) {
	return s.repo.Position(ctx, productID, warehouseID)
}

func (s *stockService) PositionsForProduct(ctx context.Context, productID uuid.UUID) ([]model.WarehousePosition, error) {
	return s.repo.PositionsForProduct(ctx, productID)
}

func (s *stockService) Verify(ctx context.Context) (*model.VerifyReport, error) {
	divergences, err := s.repo.Verify(ctx)
	if err != nil {
		return nil, err
	}
	return &model.VerifyReport{
		Consistent:  len(divergences) == 0,
		Divergences: divergences,
	}, nil
}

func (s *stockService) Rebuild(ctx context.Context) (int64, error) {
	return s.repo.Rebuild(ctx)
}
