package repository

import (
	"context"
	"errors"

	"inventory-backend/internal/domains/alert/model"
	"inventory-backend/internal/shared/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type alertRepository struct {
	db *pgxpool.Pool
}

// NewAlertRepository creates a new alert repository backed by Postgres.
func NewAlertRepository(db *pgxpool.Pool) RepositoryInterface {
	return &alertRepository{db: db}
}

func (r *alertRepository) OpenTx(ctx context.Context, tx pgx.Tx, alert *model.Alert) error {
	alert.ID = uuid.New()
	err := tx.QueryRow(ctx, `
		INSERT INTO inventory_alerts
			(id, product_id, kind, message, observed_on_hand, observed_reorder_level, opened_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING opened_at`,
		alert.ID, alert.ProductID, alert.Kind, alert.Message,
		alert.ObservedOnHand, alert.ObservedReorderLevel).
		Scan(&alert.OpenedAt)
	if err != nil {
		return apperr.FromPg(err, "inventory_alerts")
	}
	return nil
}

func (r *alertRepository) HasOpenTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, kind model.Kind) (bool, error) {
	var exists bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM inventory_alerts
			WHERE product_id = $1 AND kind = $2 AND resolved_at IS NULL
		)`,
		productID, kind).Scan(&exists)
	if err != nil {
		return false, apperr.FromPg(err, "inventory_alerts")
	}
	return exists, nil
}

func (r *alertRepository) ResolveOpenTx(ctx context.Context, tx pgx.Tx, productID uuid.UUID, resolvedBy string, kinds ...model.Kind) (int64, error) {
	if len(kinds) == 0 {
		return 0, nil
	}
	kindStrings := make([]string, len(kinds))
	for i, k := range kinds {
		kindStrings[i] = string(k)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE inventory_alerts
		SET resolved_at = NOW(), resolved_by = $2
		WHERE product_id = $1 AND kind = ANY($3) AND resolved_at IS NULL`,
		productID, resolvedBy, kindStrings)
	if err != nil {
		return 0, apperr.FromPg(err, "inventory_alerts")
	}
	return tag.RowsAffected(), nil
}

const alertColumns = `
	a.id, a.product_id, p.code, p.name, a.kind, a.message,
	a.observed_on_hand, a.observed_reorder_level, a.opened_at, a.resolved_at, a.resolved_by`

func scanAlert(row pgx.Row, a *model.Alert) error {
	return row.Scan(&a.ID, &a.ProductID, &a.ProductCode, &a.ProductName, &a.Kind, &a.Message,
		&a.ObservedOnHand, &a.ObservedReorderLevel, &a.OpenedAt, &a.ResolvedAt, &a.ResolvedBy)
}

func (r *alertRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Alert, error) {
	var a model.Alert
	err := scanAlert(r.db.QueryRow(ctx, `
		SELECT `+alertColumns+`
		FROM inventory_alerts a
		JOIN products p ON p.id = a.product_id
		WHERE a.id = $1`, id), &a)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("alert", id.String())
		}
		return nil, apperr.FromPg(err, "inventory_alerts")
	}
	return &a, nil
}

func (r *alertRepository) Resolve(ctx context.Context, id uuid.UUID, resolvedBy string) (*model.Alert, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE inventory_alerts
		SET resolved_at = NOW(), resolved_by = $2
		WHERE id = $1 AND resolved_at IS NULL`,
		id, resolvedBy)
	if err != nil {
		return nil, apperr.FromPg(err, "inventory_alerts")
	}
	_ = tag // re-resolving is a no-op that returns the existing record

	return r.GetByID(ctx, id)
}

func (r *alertRepository) List(ctx context.Context, status model.StatusFilter) ([]model.Alert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM inventory_alerts a
		JOIN products p ON p.id = a.product_id`

	switch status {
	case model.StatusUnresolved:
		query += " WHERE a.resolved_at IS NULL"
	case model.StatusResolved:
		query += " WHERE a.resolved_at IS NOT NULL"
	}
	query += " ORDER BY a.opened_at DESC, a.id"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, apperr.FromPg(err, "inventory_alerts")
	}
	defer rows.Close()

	alerts := make([]model.Alert, 0)
	for rows.Next() {
		var a model.Alert
		if err := scanAlert(rows, &a); err != nil {
			return nil, apperr.FromPg(err, "inventory_alerts")
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.FromPg(err, "inventory_alerts")
	}
	return alerts, nil
}

func (r *alertRepository) SweepResolved(ctx context.Context, retentionDays int) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM inventory_alerts
		WHERE resolved_at IS NOT NULL
		  AND resolved_at < NOW() - make_interval(days => $1)`,
		retentionDays)
	if err != nil {
		return 0, apperr.FromPg(err, "inventory_alerts")
	}
	return tag.RowsAffected(), nil
}
