package service

import (
	"context"

	"inventory-backend/internal/domains/catalog/model"
	"inventory-backend/internal/domains/catalog/repository"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
)

// ServiceInterface is the catalog contract: thin CRUD over counterparties,
// categories and warehouses.
type ServiceInterface interface {
	CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error)
	DeactivateCategory(ctx context.Context, id uuid.UUID) error

	CreateSupplier(ctx context.Context, req model.SupplierRequest) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, req model.SupplierRequest) (*model.Supplier, error)
	DeactivateSupplier(ctx context.Context, id uuid.UUID) error

	CreateCustomer(ctx context.Context, req model.CustomerRequest) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, req model.CustomerRequest) (*model.Customer, error)
	DeactivateCustomer(ctx context.Context, id uuid.UUID) error

	CreateWarehouse(ctx context.Context, req model.WarehouseRequest) (*model.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]model.Warehouse, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, req model.WarehouseRequest) (*model.Warehouse, error)
	DeactivateWarehouse(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo repository.RepositoryInterface
}

// NewCatalogService creates the catalog service.
func NewCatalogService(repo repository.RepositoryInterface) ServiceInterface {
	return &catalogService{repo: repo}
}

func (s *catalogService) CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("category", err.Error())
	}
	c := &model.Category{Name: req.Name, Description: req.Description}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("category", err.Error())
	}
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.Description = req.Description
	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogService) DeactivateCategory(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetCategoryActive(ctx, id, false)
}

func (s *catalogService) CreateSupplier(ctx context.Context, req model.SupplierRequest) (*model.Supplier, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("supplier", err.Error())
	}
	sup := &model.Supplier{
		Name:          req.Name,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         req.Email,
		Address:       req.Address,
	}
	if err := s.repo.CreateSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *catalogService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func (s *catalogService) UpdateSupplier(ctx context.Context, id uuid.UUID, req model.SupplierRequest) (*model.Supplier, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("supplier", err.Error())
	}
	sup, err := s.repo.GetSupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	sup.Name = req.Name
	sup.ContactPerson = req.ContactPerson
	sup.Phone = req.Phone
	sup.Email = req.Email
	sup.Address = req.Address
	if err := s.repo.UpdateSupplier(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *catalogService) DeactivateSupplier(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetSupplierActive(ctx, id, false)
}

func (s *catalogService) CreateCustomer(ctx context.Context, req model.CustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("customer", err.Error())
	}
	c := &model.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
	}
	if err := s.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogService) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	return s.repo.ListCustomers(ctx)
}

func (s *catalogService) UpdateCustomer(ctx context.Context, id uuid.UUID, req model.CustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("customer", err.Error())
	}
	c, err := s.repo.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = req.Name
	c.Phone = req.Phone
	c.Email = req.Email
	c.Address = req.Address
	if err := s.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *catalogService) DeactivateCustomer(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetCustomerActive(ctx, id, false)
}

func (s *catalogService) CreateWarehouse(ctx context.Context, req model.WarehouseRequest) (*model.Warehouse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("warehouse", err.Error())
	}
	w := &model.Warehouse{Name: req.Name, Location: req.Location}
	if err := s.repo.CreateWarehouse(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *catalogService) ListWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	return s.repo.ListWarehouses(ctx)
}

func (s *catalogService) UpdateWarehouse(ctx context.Context, id uuid.UUID, req model.WarehouseRequest) (*model.Warehouse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperr.Validation("warehouse", err.Error())
	}
	w, err := s.repo.GetWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Name = req.Name
	w.Location = req.Location
	if err := s.repo.UpdateWarehouse(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

// DeactivateWarehouse refuses while the warehouse still holds stock; the
// quantities must be adjusted or transferred out first.
func (s *catalogService) DeactivateWarehouse(ctx context.Context, id uuid.UUID) error {
	hasStock, err := s.repo.WarehouseHasStock(ctx, id)
	if err != nil {
		return err
	}
	if hasStock {
		return apperr.Conflict("warehouse", "warehouse still holds stock")
	}
	return s.repo.SetWarehouseActive(ctx, id, false)
}
