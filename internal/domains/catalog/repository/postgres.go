package repository

import (
	"context"
	"errors"

	"inventory-backend/internal/domains/catalog/model"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a new catalog repository backed by Postgres.
func NewCatalogRepository(db *pgxpool.Pool) RepositoryInterface {
	return &catalogRepository{db: db}
}

func notFoundOr(err error, entity, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(entity, id)
	}
	return apperr.FromPg(err, entity)
}

func (r *catalogRepository) setActive(ctx context.Context, table, entity string, id uuid.UUID, active bool) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE "+table+" SET is_active = $2, updated_at = NOW() WHERE id = $1", id, active)
	if err != nil {
		return apperr.FromPg(err, entity)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(entity, id.String())
	}
	return nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	c.ID = uuid.New()
	c.IsActive = true
	err := r.db.QueryRow(ctx, `
		INSERT INTO categories (id, name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, NOW(), NOW())
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Description).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return apperr.FromPg(err, "category")
	}
	return nil
}

func (r *catalogRepository) GetCategory(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, "category", id.String())
	}
	return &c, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, is_active, created_at, updated_at
		FROM categories WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, apperr.FromPg(err, "category")
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, apperr.FromPg(err, "category")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "category")
	}
	return categories, nil
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, c *model.Category) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE categories SET name = $2, description = $3, updated_at = NOW() WHERE id = $1`,
		c.ID, c.Name, c.Description)
	if err != nil {
		return apperr.FromPg(err, "category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("category", c.ID.String())
	}
	return nil
}

func (r *catalogRepository) SetCategoryActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.setActive(ctx, "categories", "category", id, active)
}

func (r *catalogRepository) CreateSupplier(ctx context.Context, s *model.Supplier) error {
	s.ID = uuid.New()
	s.IsActive = true
	err := r.db.QueryRow(ctx, `
		INSERT INTO suppliers (id, name, contact_person, phone, email, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())
		RETURNING created_at, updated_at`,
		s.ID, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address).
		Scan(&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return apperr.FromPg(err, "supplier")
	}
	return nil
}

func (r *catalogRepository) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.QueryRow(ctx, `
		SELECT id, name, contact_person, phone, email, address, is_active, created_at, updated_at
		FROM suppliers WHERE id = $1`, id).
		Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Phone, &s.Email, &s.Address,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, "supplier", id.String())
	}
	return &s, nil
}

func (r *catalogRepository) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, contact_person, phone, email, address, is_active, created_at, updated_at
		FROM suppliers WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, apperr.FromPg(err, "supplier")
	}
	defer rows.Close()

	suppliers := make([]model.Supplier, 0)
	for rows.Next() {
		var s model.Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Phone, &s.Email, &s.Address,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, apperr.FromPg(err, "supplier")
		}
		suppliers = append(suppliers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "supplier")
	}
	return suppliers, nil
}

func (r *catalogRepository) UpdateSupplier(ctx context.Context, s *model.Supplier) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE suppliers
		SET name = $2, contact_person = $3, phone = $4, email = $5, address = $6, updated_at = NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.ContactPerson, s.Phone, s.Email, s.Address)
	if err != nil {
		return apperr.FromPg(err, "supplier")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("supplier", s.ID.String())
	}
	return nil
}

func (r *catalogRepository) SetSupplierActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.setActive(ctx, "suppliers", "supplier", id, active)
}

func (r *catalogRepository) CreateCustomer(ctx context.Context, c *model.Customer) error {
	c.ID = uuid.New()
	c.IsActive = true
	err := r.db.QueryRow(ctx, `
		INSERT INTO customers (id, name, phone, email, address, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Phone, c.Email, c.Address).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return apperr.FromPg(err, "customer")
	}
	return nil
}

func (r *catalogRepository) GetCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var c model.Customer
	err := r.db.QueryRow(ctx, `
		SELECT id, name, phone, email, address, is_active, created_at, updated_at
		FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, "customer", id.String())
	}
	return &c, nil
}

func (r *catalogRepository) ListCustomers(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, phone, email, address, is_active, created_at, updated_at
		FROM customers WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, apperr.FromPg(err, "customer")
	}
	defer rows.Close()

	customers := make([]model.Customer, 0)
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.Address, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, apperr.FromPg(err, "customer")
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "customer")
	}
	return customers, nil
}

func (r *catalogRepository) UpdateCustomer(ctx context.Context, c *model.Customer) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE customers
		SET name = $2, phone = $3, email = $4, address = $5, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Phone, c.Email, c.Address)
	if err != nil {
		return apperr.FromPg(err, "customer")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("customer", c.ID.String())
	}
	return nil
}

func (r *catalogRepository) SetCustomerActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.setActive(ctx, "customers", "customer", id, active)
}

func (r *catalogRepository) CreateWarehouse(ctx context.Context, w *model.Warehouse) error {
	w.ID = uuid.New()
	w.IsActive = true
	err := r.db.QueryRow(ctx, `
		INSERT INTO warehouses (id, name, location, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, NOW(), NOW())
		RETURNING created_at, updated_at`,
		w.ID, w.Name, w.Location).
		Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return apperr.FromPg(err, "warehouse")
	}
	return nil
}

func (r *catalogRepository) GetWarehouse(ctx context.Context, id uuid.UUID) (*model.Warehouse, error) {
	var w model.Warehouse
	err := r.db.QueryRow(ctx, `
		SELECT id, name, location, is_active, created_at, updated_at
		FROM warehouses WHERE id = $1`, id).
		Scan(&w.ID, &w.Name, &w.Location, &w.IsActive, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err, "warehouse", id.String())
	}
	return &w, nil
}

func (r *catalogRepository) ListWarehouses(ctx context.Context) ([]model.Warehouse, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, location, is_active, created_at, updated_at
		FROM warehouses WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, apperr.FromPg(err, "warehouse")
	}
	defer rows.Close()

	warehouses := make([]model.Warehouse, 0)
	for rows.Next() {
		var w model.Warehouse
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.IsActive, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, apperr.FromPg(err, "warehouse")
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "warehouse")
	}
	return warehouses, nil
}

func (r *catalogRepository) UpdateWarehouse(ctx context.Context, w *model.Warehouse) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE warehouses SET name = $2, location = $3, updated_at = NOW() WHERE id = $1`,
		w.ID, w.Name, w.Location)
	if err != nil {
		return apperr.FromPg(err, "warehouse")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("warehouse", w.ID.String())
	}
	return nil
}

func (r *catalogRepository) SetWarehouseActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.setActive(ctx, "warehouses", "warehouse", id, active)
}

func (r *catalogRepository) WarehouseHasStock(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM product_stocks WHERE warehouse_id = $1 AND on_hand > 0)", id).
		Scan(&exists)
	if err != nil {
		return false, apperr.FromPg(err, "warehouse")
	}
	return exists, nil
}
