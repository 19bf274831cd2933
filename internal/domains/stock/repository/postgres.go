package repository

import (
	"context"
	"errors"
	"strconv"

	"inventory-backend/internal/domains/stock/model"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type stockRepository struct {
	db *pgxpool.Pool
}

// NewStockRepository creates a new stock repository backed by Postgres.
func NewStockRepository(db *pgxpool.Pool) RepositoryInterface {
	return &stockRepository{db: db}
}

func (r *stockRepository) AppendTx(ctx context.Context, tx pgx.Tx, input model.AppendInput) (*model.Movement, error) {
	if !input.Kind.IsValid() || !input.Kind.AllowsDelta(input.Delta) {
		return nil, apperr.Validation("delta", model.NewInvalidMovementError(input.Kind, input.Delta).Error())
	}

	// Create the position lazily at zero so the first inbound movement does
	// not need a separate provisioning step.
	_, err := tx.Exec(ctx, `
		INSERT INTO product_stocks (product_id, warehouse_id, on_hand, updated_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (product_id, warehouse_id) DO NOTHING`,
		input.ProductID, input.WarehouseID)
	if err != nil {
		return nil, apperr.FromPg(err, "product_stocks")
	}

	var onHand int64
	err = tx.QueryRow(ctx, `
		SELECT on_hand FROM product_stocks
		WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`,
		input.ProductID, input.WarehouseID).Scan(&onHand)
	if err != nil {
		return nil, apperr.FromPg(err, "product_stocks")
	}

	newOnHand := onHand + input.Delta
	if newOnHand < 0 {
		return nil, apperr.InsufficientStock(onHand, -input.Delta)
	}

	_, err = tx.Exec(ctx, `
		UPDATE product_stocks SET on_hand = $3, updated_at = NOW()
		WHERE product_id = $1 AND warehouse_id = $2`,
		input.ProductID, input.WarehouseID, newOnHand)
	if err != nil {
		return nil, apperr.FromPg(err, "product_stocks")
	}

	mv := &model.Movement{
		ProductID:        input.ProductID,
		WarehouseID:      input.WarehouseID,
		Delta:            input.Delta,
		Kind:             input.Kind,
		DocKind:          input.DocKind,
		DocID:            input.DocID,
		LineID:           input.LineID,
		UnitCostSnapshot: input.UnitCostSnapshot,
		Reason:           input.Reason,
		Actor:            input.Actor,
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO stock_movements
			(product_id, warehouse_id, delta, kind, doc_kind, doc_id, line_id, unit_cost_snapshot, reason, occurred_at, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), $10)
		RETURNING id, occurred_at`,
		input.ProductID, input.WarehouseID, input.Delta, input.Kind, input.DocKind,
		input.DocID, input.LineID, input.UnitCostSnapshot, input.Reason, input.Actor).
		Scan(&mv.ID, &mv.OccurredAt)
	if err != nil {
		return nil, apperr.FromPg(err, "stock_movements")
	}

	return mv, nil
}

func (r *stockRepository) TotalOnHandTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID) (int64, error) {
	var total int64
	err := tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(on_hand), 0) FROM product_stocks WHERE product_id = $1`,
		productID).Scan(&total)
	if err != nil {
		return 0, apperr.FromPg(err, "product_stocks")
	}
	return total, nil
}

func (r *stockRepository) Position(ctx context.Context, productID, warehouseID uuid.UUID) (*model.Position, error) {
	var p model.Position
	err := r.db.QueryRow(ctx, `
		SELECT product_id, warehouse_id, on_hand, updated_at
		FROM product_stocks
		WHERE product_id = $1 AND warehouse_id = $2`,
		productID, warehouseID).
		Scan(&p.ProductID, &p.WarehouseID, &p.OnHand, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("stock position", productID.String())
		}
		return nil, apperr.FromPg(err, "product_stocks")
	}
	return &p, nil
}

func (r *stockRepository) PositionsForProduct(ctx context.Context, productID uuid.UUID) ([]model.WarehousePosition, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ps.warehouse_id, w.name, ps.on_hand
		FROM product_stocks ps
		JOIN warehouses w ON w.id = ps.warehouse_id
		WHERE ps.product_id = $1
		ORDER BY w.name`,
		productID)
	if err != nil {
		return nil, apperr.FromPg(err, "product_stocks")
	}
	defer rows.Close()

	positions := make([]model.WarehousePosition, 0)
	for rows.Next() {
		var wp model.WarehousePosition
		if err := rows.Scan(&wp.WarehouseID, &wp.WarehouseName, &wp.OnHand); err != nil {
			return nil, apperr.FromPg(err, "product_stocks")
		}
		positions = append(positions, wp)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "product_stocks")
	}
	return positions, nil
}

func (r *stockRepository) Ledger(ctx context.Context, filter model.LedgerFilter) ([]model.Movement, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1

	if filter.ProductID != nil {
		where += " AND product_id = $" + strconv.Itoa(idx)
		args = append(args, *filter.ProductID)
		idx++
	}
	if filter.WarehouseID != nil {
		where += " AND warehouse_id = $" + strconv.Itoa(idx)
		args = append(args, *filter.WarehouseID)
		idx++
	}
	if filter.Since != nil {
		where += " AND occurred_at >= $" + strconv.Itoa(idx)
		args = append(args, *filter.Since)
		idx++
	}
	if filter.Until != nil {
		where += " AND occurred_at < $" + strconv.Itoa(idx)
		args = append(args, *filter.Until)
		idx++
	}

	var total int64
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM stock_movements"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, apperr.FromPg(err, "stock_movements")
	}

	query := `
		SELECT id, product_id, warehouse_id, delta, kind, doc_kind, doc_id, line_id,
		       unit_cost_snapshot, reason, occurred_at, actor
		FROM stock_movements` + where +
		" ORDER BY occurred_at, id LIMIT $" + strconv.Itoa(idx) + " OFFSET $" + strconv.Itoa(idx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperr.FromPg(err, "stock_movements")
	}
	defer rows.Close()

	movements := make([]model.Movement, 0)
	for rows.Next() {
		var m model.Movement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Delta, &m.Kind, &m.DocKind,
			&m.DocID, &m.LineID, &m.UnitCostSnapshot, &m.Reason, &m.OccurredAt, &m.Actor); err != nil {
			return nil, 0, apperr.FromPg(err, "stock_movements")
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.FromPg(err, "stock_movements")
	}
	return movements, total, nil
}

func (r *stockRepository) Verify(ctx context.Context) ([]model.Divergence, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ps.product_id, ps.warehouse_id, ps.on_hand, COALESCE(sm.total, 0)
		FROM product_stocks ps
		LEFT JOIN (
			SELECT product_id, warehouse_id, SUM(delta) AS total
			FROM stock_movements
			GROUP BY product_id, warehouse_id
		) sm ON sm.product_id = ps.product_id AND sm.warehouse_id = ps.warehouse_id
		WHERE ps.on_hand <> COALESCE(sm.total, 0)`)
	if err != nil {
		return nil, apperr.FromPg(err, "stock_movements")
	}
	defer rows.Close()

	divergences := make([]model.Divergence, 0)
	for rows.Next() {
		var d model.Divergence
		if err := rows.Scan(&d.ProductID, &d.WarehouseID, &d.OnHand, &d.LedgerSum); err != nil {
			return nil, apperr.FromPg(err, "stock_movements")
		}
		divergences = append(divergences, d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "stock_movements")
	}
	return divergences, nil
}

func (r *stockRepository) Rebuild(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE product_stocks ps
		SET on_hand = COALESCE(sm.total, 0), updated_at = NOW()
		FROM (
			SELECT product_id, warehouse_id, SUM(delta) AS total
			FROM stock_movements
			GROUP BY product_id, warehouse_id
		) sm
		WHERE sm.product_id = ps.product_id AND sm.warehouse_id = ps.warehouse_id
		  AND ps.on_hand <> COALESCE(sm.total, 0)`)
	if err != nil {
		return 0, apperr.FromPg(err, "product_stocks")
	}
	return tag.RowsAffected(), nil
}
