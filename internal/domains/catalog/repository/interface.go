package repository

import (
	"context"

	"inventory-backend/internal/domains/catalog/model"

	"github.com/google/uuid"
)

// RepositoryInterface is the catalog persistence contract: thin CRUD with
// case-insensitive name uniqueness enforced by the schema.
type RepositoryInterface interface {
	CreateCategory(ctx context.Context, c *model.Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, c *model.Category) error
	SetCategoryActive(ctx context.Context, id uuid.UUID, active bool) error

	CreateSupplier(ctx context.Context, s *model.Supplier) error
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	UpdateSupplier(ctx context.Context, s *model.Supplier) error
	SetSupplierActive(ctx context.Context, id uuid.UUID, active bool) error

	CreateCustomer(ctx context.Context, c *model.Customer) error
	GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ListCustomers(ctx context.Context) ([]model.Customer, error)
	UpdateCustomer(ctx context.Context, c *model.Customer) error
	SetCustomerActive(ctx context.Context, id uuid.UUID, active bool) error

	CreateWarehouse(ctx context.Context, w *model.Warehouse) error
	GetWarehouse(ctx context.Context, id uuid.UUID) (*model.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]model.Warehouse, error)
	UpdateWarehouse(ctx context.Context, w *model.Warehouse) error
	SetWarehouseActive(ctx context.Context, id uuid.UUID, active bool) error

	// WarehouseHasStock reports whether any position at the warehouse is
	// non-zero; such warehouses cannot be deactivated.
	WarehouseHasStock(ctx context.Context, id uuid.UUID) (bool, error)
}
