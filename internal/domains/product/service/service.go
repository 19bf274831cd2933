package service

import (
	"context"

	"inventory-backend/internal/domains/product/model"
	"inventory-backend/internal/domains/product/repository"
	stockmodel "inventory-backend/internal/domains/stock/model"
	stockrepo "inventory-backend/internal/domains/stock/repository"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceInterface is the product catalog contract.
type ServiceInterface interface {
	Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*model.StockView, error)
	GetByCode(ctx context.Context, code string) (*model.StockView, error)
	List(ctx context.Context) ([]model.StockView, error)
	Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error)

	// Deactivate removes a product from the catalog. A product that never moved
	// is hard-deleted; one with ledger history is only marked inactive, so its
	// movements and document lines keep a valid reference. Returns true when the
	// row was deleted.
	Deactivate(ctx context.Context, id uuid.UUID) (bool, error)
}

type productService struct {
	repo      repository.RepositoryInterface
	stockRepo stockrepo.RepositoryInterface
}

// NewProductService creates the product service.
func NewProductService(repo repository.RepositoryInterface, stockRepo stockrepo.RepositoryInterface) ServiceInterface {
	return &productService{repo: repo, stockRepo: stockRepo}
}

// checkPrices enforces the catalog price invariants: both prices non-negative,
// selling at or above cost, reorder level non-negative.
func checkPrices(cost, selling decimal.Decimal, reorderLevel int64) error {
	if cost.IsNegative() {
		return apperr.Validation("cost_price", "must not be negative")
	}
	if selling.IsNegative() {
		return apperr.Validation("selling_price", "must not be negative")
	}
	if selling.LessThan(cost) {
		return apperr.Validation("selling_price", "must be at least cost_price")
	}
	if reorderLevel < 0 {
		return apperr.Validation("reorder_level", "must not be negative")
	}
	return nil
}

func (s *productService) Create(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("product", err.Error())
	}
	if err := checkPrices(req.CostPrice, req.SellingPrice, req.ReorderLevel); err != nil {
		return nil, err
	}

	product := &model.Product{
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		CategoryID:   req.CategoryID,
		SupplierID:   req.SupplierID,
		Unit:         req.Unit,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		ReorderLevel: req.ReorderLevel,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*model.StockView, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	positions, err := s.stockRepo.PositionsForProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildStockView(*product, positions), nil
}

func (s *productService) GetByCode(ctx context.Context, code string) (*model.StockView, error) {
	if code == "" {
		return nil, apperr.Validation("code", "is required")
	}
	product, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	positions, err := s.stockRepo.PositionsForProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	return buildStockView(*product, positions), nil
}

func (s *productService) List(ctx context.Context) ([]model.StockView, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.StockView, 0, len(products))
	for _, p := range products {
		positions, err := s.stockRepo.PositionsForProduct(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, *buildStockView(p, positions))
	}
	return views, nil
}

func buildStockView(p model.Product, positions []stockmodel.WarehousePosition) *model.StockView {
	view := &model.StockView{Product: p, Warehouses: make([]model.WarehouseStock, 0, len(positions))}
	for _, pos := range positions {
		view.TotalOnHand += pos.OnHand
		view.Warehouses = append(view.Warehouses, model.WarehouseStock{
			WarehouseID:   pos.WarehouseID,
			WarehouseName: pos.WarehouseName,
			OnHand:        pos.OnHand,
		})
	}
	return view
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, apperr.Validation("name", "must not be empty")
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.CategoryID != nil {
		product.CategoryID = req.CategoryID
	}
	if req.SupplierID != nil {
		product.SupplierID = req.SupplierID
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.CostPrice != nil {
		product.CostPrice = *req.CostPrice
	}
	if req.SellingPrice != nil {
		product.SellingPrice = *req.SellingPrice
	}
	if req.ReorderLevel != nil {
		product.ReorderLevel = *req.ReorderLevel
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := checkPrices(product.CostPrice, product.SellingPrice, product.ReorderLevel); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) (bool, error) {
	moved, err := s.repo.HasMovements(ctx, id)
	if err != nil {
		return false, err
	}
	if moved {
		return false, s.repo.SetActive(ctx, id, false)
	}
	return true, s.repo.Delete(ctx, id)
}
