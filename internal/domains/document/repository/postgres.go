package repository

import (
	"context"
	"errors"
	"strconv"

	"inventory-backend/internal/domains/document/model"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type documentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository backed by Postgres.
func NewDocumentRepository(db *pgxpool.Pool) RepositoryInterface {
	return &documentRepository{db: db}
}

const purchaseHeaderColumns = `
	id, reference_number, supplier_id, warehouse_id, status, total_amount, notes,
	is_compensation, compensates_sale_id, cancelled_by_sale_id, created_by, created_at`

const saleHeaderColumns = `
	id, invoice_number, customer_id, warehouse_id, status, total_amount, notes,
	is_compensation, compensates_purchase_id, cancelled_by_purchase_id, created_by, created_at`

func scanPurchaseHeader(row pgx.Row, h *model.PurchaseHeader) error {
	return row.Scan(&h.ID, &h.ReferenceNumber, &h.SupplierID, &h.WarehouseID, &h.Status,
		&h.TotalAmount, &h.Notes, &h.IsCompensation, &h.CompensatesSaleID,
		&h.CancelledBySaleID, &h.CreatedBy, &h.CreatedAt)
}

func scanSaleHeader(row pgx.Row, h *model.SaleHeader) error {
	return row.Scan(&h.ID, &h.InvoiceNumber, &h.CustomerID, &h.WarehouseID, &h.Status,
		&h.TotalAmount, &h.Notes, &h.IsCompensation, &h.CompensatesPurchaseID,
		&h.CancelledByPurchaseID, &h.CreatedBy, &h.CreatedAt)
}

func (r *documentRepository) CreatePurchaseHeaderTx(ctx context.Context, tx pgx.Tx, header *model.PurchaseHeader) error {
	header.ID = uuid.New()
	err := tx.QueryRow(ctx, `
		INSERT INTO purchase_headers
			(id, reference_number, supplier_id, warehouse_id, status, total_amount, notes,
			 is_compensation, compensates_sale_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, NOW())
		RETURNING created_at`,
		header.ID, header.ReferenceNumber, header.SupplierID, header.WarehouseID,
		header.Status, header.Notes, header.IsCompensation, header.CompensatesSaleID,
		header.CreatedBy).
		Scan(&header.CreatedAt)
	if err != nil {
		return apperr.FromPg(err, "purchase")
	}
	return nil
}

func (r *documentRepository) CreatePurchaseLineTx(ctx context.Context, tx pgx.Tx, line *model.PurchaseLine) error {
	line.ID = uuid.New()
	_, err := tx.Exec(ctx, `
		INSERT INTO purchase_items (id, header_id, product_id, quantity, unit_cost, line_total, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		line.ID, line.HeaderID, line.ProductID, line.Quantity, line.UnitCost,
		line.LineTotal, line.Notes)
	if err != nil {
		return apperr.FromPg(err, "purchase line")
	}
	return nil
}

func (r *documentRepository) SetPurchaseTotalTx(ctx context.Context, tx pgx.Tx, header *model.PurchaseHeader) error {
	_, err := tx.Exec(ctx,
		"UPDATE purchase_headers SET total_amount = $2 WHERE id = $1",
		header.ID, header.TotalAmount)
	if err != nil {
		return apperr.FromPg(err, "purchase")
	}
	return nil
}

func (r *documentRepository) GetPurchaseTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := scanPurchaseHeader(tx.QueryRow(ctx,
		"SELECT "+purchaseHeaderColumns+" FROM purchase_headers WHERE id = $1 FOR UPDATE", id),
		&p.PurchaseHeader)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("purchase", id.String())
		}
		return nil, apperr.FromPg(err, "purchase")
	}

	lines, err := r.purchaseLines(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	p.Lines = lines
	return &p, nil
}

func (r *documentRepository) MarkPurchaseCancelledTx(ctx context.Context, tx pgx.Tx, id, compensatorSaleID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `
		UPDATE purchase_headers
		SET status = $2, cancelled_by_sale_id = $3
		WHERE id = $1 AND status = $4`,
		id, model.StatusCancelled, compensatorSaleID, model.StatusPosted)
	if err != nil {
		return apperr.FromPg(err, "purchase")
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("purchase", "document is not in POSTED status")
	}
	return nil
}

func (r *documentRepository) CreateSaleHeaderTx(ctx context.Context, tx pgx.Tx, header *model.SaleHeader) error {
	header.ID = uuid.New()
	err := tx.QueryRow(ctx, `
		INSERT INTO sale_headers
			(id, invoice_number, customer_id, warehouse_id, status, total_amount, notes,
			 is_compensation, compensates_purchase_id, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9, NOW())
		RETURNING created_at`,
		header.ID, header.InvoiceNumber, header.CustomerID, header.WarehouseID,
		header.Status, header.Notes, header.IsCompensation, header.CompensatesPurchaseID,
		header.CreatedBy).
		Scan(&header.CreatedAt)
	if err != nil {
		return apperr.FromPg(err, "sale")
	}
	return nil
}

func (r *documentRepository) CreateSaleLineTx(ctx context.Context, tx pgx.Tx, line *model.SaleLine) error {
	line.ID = uuid.New()
	_, err := tx.Exec(ctx, `
		INSERT INTO sale_items (id, header_id, product_id, quantity, unit_price, unit_cost_snapshot, line_total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		line.ID, line.HeaderID, line.ProductID, line.Quantity, line.UnitPrice,
		line.UnitCostSnapshot, line.LineTotal)
	if err != nil {
		return apperr.FromPg(err, "sale line")
	}
	return nil
}

func (r *documentRepository) SetSaleTotalTx(ctx context.Context, tx pgx.Tx, header *model.SaleHeader) error {
	_, err := tx.Exec(ctx,
		"UPDATE sale_headers SET total_amount = $2 WHERE id = $1",
		header.ID, header.TotalAmount)
	if err != nil {
		return apperr.FromPg(err, "sale")
	}
	return nil
}

func (r *documentRepository) GetSaleTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := scanSaleHeader(tx.QueryRow(ctx,
		"SELECT "+saleHeaderColumns+" FROM sale_headers WHERE id = $1 FOR UPDATE", id),
		&s.SaleHeader)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("sale", id.String())
		}
		return nil, apperr.FromPg(err, "sale")
	}

	lines, err := r.saleLines(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

func (r *documentRepository) MarkSaleCancelledTx(ctx context.Context, tx pgx.Tx, id, compensatorPurchaseID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `
		UPDATE sale_headers
		SET status = $2, cancelled_by_purchase_id = $3
		WHERE id = $1 AND status = $4`,
		id, model.StatusCancelled, compensatorPurchaseID, model.StatusPosted)
	if err != nil {
		return apperr.FromPg(err, "sale")
	}
	if tag.RowsAffected() == 0 {
		return apperr.Conflict("sale", "document is not in POSTED status")
	}
	return nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *documentRepository) purchaseLines(ctx context.Context, q querier, headerID uuid.UUID) ([]model.PurchaseLine, error) {
	rows, err := q.Query(ctx, `
		SELECT id, header_id, product_id, quantity, unit_cost, line_total, notes
		FROM purchase_items WHERE header_id = $1 ORDER BY id`, headerID)
	if err != nil {
		return nil, apperr.FromPg(err, "purchase line")
	}
	defer rows.Close()

	lines := make([]model.PurchaseLine, 0)
	for rows.Next() {
		var l model.PurchaseLine
		if err := rows.Scan(&l.ID, &l.HeaderID, &l.ProductID, &l.Quantity, &l.UnitCost,
			&l.LineTotal, &l.Notes); err != nil {
			return nil, apperr.FromPg(err, "purchase line")
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "purchase line")
	}
	return lines, nil
}

func (r *documentRepository) saleLines(ctx context.Context, q querier, headerID uuid.UUID) ([]model.SaleLine, error) {
	rows, err := q.Query(ctx, `
		SELECT id, header_id, product_id, quantity, unit_price, unit_cost_snapshot, line_total
		FROM sale_items WHERE header_id = $1 ORDER BY id`, headerID)
	if err != nil {
		return nil, apperr.FromPg(err, "sale line")
	}
	defer rows.Close()

	lines := make([]model.SaleLine, 0)
	for rows.Next() {
		var l model.SaleLine
		if err := rows.Scan(&l.ID, &l.HeaderID, &l.ProductID, &l.Quantity, &l.UnitPrice,
			&l.UnitCostSnapshot, &l.LineTotal); err != nil {
			return nil, apperr.FromPg(err, "sale line")
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "sale line")
	}
	return lines, nil
}

func (r *documentRepository) GetPurchase(ctx context.Context, id uuid.UUID) (*model.Purchase, error) {
	var p model.Purchase
	err := scanPurchaseHeader(r.db.QueryRow(ctx,
		"SELECT "+purchaseHeaderColumns+" FROM purchase_headers WHERE id = $1", id),
		&p.PurchaseHeader)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("purchase", id.String())
		}
		return nil, apperr.FromPg(err, "purchase")
	}

	lines, err := r.purchaseLines(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	p.Lines = lines
	return &p, nil
}

// buildListWhere renders the shared header filter. partyColumn is supplier_id
// for purchases and customer_id for sales; the returned index is the next free
// placeholder for LIMIT/OFFSET.
func buildListWhere(filter model.ListFilter, partyColumn string) (string, []any, int) {
	where := " WHERE 1=1"
	args := []any{}
	idx := 1

	if filter.Status != "" {
		where += " AND status = $" + strconv.Itoa(idx)
		args = append(args, filter.Status)
		idx++
	}
	if filter.PartyID != nil {
		where += " AND " + partyColumn + " = $" + strconv.Itoa(idx)
		args = append(args, *filter.PartyID)
		idx++
	}
	if filter.Since != nil {
		where += " AND created_at >= $" + strconv.Itoa(idx)
		args = append(args, *filter.Since)
		idx++
	}
	if filter.Until != nil {
		where += " AND created_at < $" + strconv.Itoa(idx)
		args = append(args, *filter.Until)
		idx++
	}
	if !filter.IncludeCompensations {
		where += " AND NOT is_compensation"
	}
	return where, args, idx
}

func (r *documentRepository) ListPurchases(ctx context.Context, filter model.ListFilter) ([]model.Purchase, int64, error) {
	where, args, idx := buildListWhere(filter, "supplier_id")

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM purchase_headers"+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.FromPg(err, "purchase")
	}

	query := `
		SELECT ` + purchaseHeaderColumns + `
		FROM purchase_headers` + where +
		" ORDER BY created_at DESC, id LIMIT $" + strconv.Itoa(idx) + " OFFSET $" + strconv.Itoa(idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.FromPg(err, "purchase")
	}
	defer rows.Close()

	purchases := make([]model.Purchase, 0)
	for rows.Next() {
		var p model.Purchase
		if err := scanPurchaseHeader(rows, &p.PurchaseHeader); err != nil {
			return nil, 0, apperr.FromPg(err, "purchase")
		}
		purchases = append(purchases, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.FromPg(err, "purchase")
	}

	for i := range purchases {
		lines, err := r.purchaseLines(ctx, r.db, purchases[i].ID)
		if err != nil {
			return nil, 0, err
		}
		purchases[i].Lines = lines
	}
	return purchases, total, nil
}

func (r *documentRepository) GetSale(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := scanSaleHeader(r.db.QueryRow(ctx,
		"SELECT "+saleHeaderColumns+" FROM sale_headers WHERE id = $1", id),
		&s.SaleHeader)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("sale", id.String())
		}
		return nil, apperr.FromPg(err, "sale")
	}

	lines, err := r.saleLines(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

func (r *documentRepository) ListSales(ctx context.Context, filter model.ListFilter) ([]model.Sale, int64, error) {
	where, args, idx := buildListWhere(filter, "customer_id")

	var total int64
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM sale_headers"+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.FromPg(err, "sale")
	}

	query := `
		SELECT ` + saleHeaderColumns + `
		FROM sale_headers` + where +
		" ORDER BY created_at DESC, id LIMIT $" + strconv.Itoa(idx) + " OFFSET $" + strconv.Itoa(idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.FromPg(err, "sale")
	}
	defer rows.Close()

	sales := make([]model.Sale, 0)
	for rows.Next() {
		var s model.Sale
		if err := scanSaleHeader(rows, &s.SaleHeader); err != nil {
			return nil, 0, apperr.FromPg(err, "sale")
		}
		sales = append(sales, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.FromPg(err, "sale")
	}

	for i := range sales {
		lines, err := r.saleLines(ctx, r.db, sales[i].ID)
		if err != nil {
			return nil, 0, err
		}
		sales[i].Lines = lines
	}
	return sales, total, nil
}

func (r *documentRepository) existsTx(ctx context.Context, tx pgx.Tx, query string, id uuid.UUID, resource string) (bool, error) {
	var exists bool
	if err := tx.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, apperr.FromPg(err, resource)
	}
	return exists, nil
}

func (r *documentRepository) SupplierExistsTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	return r.existsTx(ctx, tx,
		"SELECT EXISTS (SELECT 1 FROM suppliers WHERE id = $1 AND is_active)", id, "supplier")
}

func (r *documentRepository) CustomerExistsTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	return r.existsTx(ctx, tx,
		"SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1 AND is_active)", id, "customer")
}

func (r *documentRepository) WarehouseExistsTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	return r.existsTx(ctx, tx,
		"SELECT EXISTS (SELECT 1 FROM warehouses WHERE id = $1 AND is_active)", id, "warehouse")
}
