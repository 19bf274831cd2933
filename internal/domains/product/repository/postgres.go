package repository

import (
	"context"
	"errors"

	"inventory-backend/internal/domains/product/model"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type productRepository struct {
	db *pgxpool.Pool
}

// NewProductRepository creates a new product repository backed by Postgres.
func NewProductRepository(db *pgxpool.Pool) RepositoryInterface {
	return &productRepository{db: db}
}

const productColumns = `
	id, code, name, description, category_id, supplier_id, unit,
	cost_price, selling_price, reorder_level, is_active, created_at, updated_at`

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(&p.ID, &p.Code, &p.Name, &p.Description, &p.CategoryID, &p.SupplierID,
		&p.Unit, &p.CostPrice, &p.SellingPrice, &p.ReorderLevel, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt)
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.New()
	product.IsActive = true

	err := r.db.QueryRow(ctx, `
		INSERT INTO products
			(id, code, name, description, category_id, supplier_id, unit,
			 cost_price, selling_price, reorder_level, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE, NOW(), NOW())
		RETURNING created_at, updated_at`,
		product.ID, product.Code, product.Name, product.Description,
		product.CategoryID, product.SupplierID, product.Unit,
		product.CostPrice, product.SellingPrice, product.ReorderLevel).
		Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return apperr.FromPg(err, "product")
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := scanProduct(r.db.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("product", id.String())
		}
		return nil, apperr.FromPg(err, "product")
	}
	return &p, nil
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*model.Product, error) {
	var p model.Product
	err := scanProduct(r.db.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE code = $1", code), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("product", code)
		}
		return nil, apperr.FromPg(err, "product")
	}
	return &p, nil
}

func (r *productRepository) ListActive(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE is_active ORDER BY code")
	if err != nil {
		return nil, apperr.FromPg(err, "product")
	}
	defer rows.Close()

	products := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, apperr.FromPg(err, "product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "product")
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, category_id = $4, supplier_id = $5, unit = $6,
		    cost_price = $7, selling_price = $8, reorder_level = $9, is_active = $10,
		    updated_at = NOW()
		WHERE id = $1`,
		product.ID, product.Name, product.Description, product.CategoryID,
		product.SupplierID, product.Unit, product.CostPrice, product.SellingPrice,
		product.ReorderLevel, product.IsActive)
	if err != nil {
		return apperr.FromPg(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product", product.ID.String())
	}
	return nil
}

func (r *productRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE products SET is_active = $2, updated_at = NOW() WHERE id = $1", id, active)
	if err != nil {
		return apperr.FromPg(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product", id.String())
	}
	return nil
}

func (r *productRepository) HasMovements(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM stock_movements WHERE product_id = $1)", id).
		Scan(&exists)
	if err != nil {
		return false, apperr.FromPg(err, "product")
	}
	return exists, nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return apperr.FromPg(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product", id.String())
	}
	return nil
}

func (r *productRepository) GetTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := scanProduct(tx.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("product", id.String())
		}
		return nil, apperr.FromPg(err, "product")
	}
	return &p, nil
}

func (r *productRepository) AlertViewTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.AlertView, error) {
	var v model.AlertView
	err := tx.QueryRow(ctx,
		"SELECT id, code, reorder_level FROM products WHERE id = $1", id).
		Scan(&v.ID, &v.Code, &v.ReorderLevel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("product", id.String())
		}
		return nil, apperr.FromPg(err, "product")
	}
	return &v, nil
}

func (r *productRepository) UpdateCostPriceTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, costPrice decimal.Decimal) error {
	tag, err := tx.Exec(ctx,
		"UPDATE products SET cost_price = $2, updated_at = NOW() WHERE id = $1", id, costPrice)
	if err != nil {
		return apperr.FromPg(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("product", id.String())
	}
	return nil
}
