package apperr

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestFromPgMapsConstraintViolations(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "sale_headers_invoice_number_key"}
	err := FromPg(unique, "sale")
	assert.True(t, IsConflict(err))

	fk := &pgconn.PgError{Code: "23503", ConstraintName: "purchase_items_product_id_fkey"}
	err = FromPg(fk, "purchase")
	assert.True(t, IsNotFound(err))

	check := &pgconn.PgError{Code: "23514", ConstraintName: "product_stocks_on_hand_check"}
	err = FromPg(check, "stock")
	assert.True(t, IsValidation(err))
}

func TestFromPgMapsTransientClasses(t *testing.T) {
	conn := &pgconn.PgError{Code: "08006"}
	assert.True(t, IsTransient(FromPg(conn, "stock")))

	deadlock := &pgconn.PgError{Code: "40P01"}
	assert.True(t, IsTransient(FromPg(deadlock, "stock")))

	assert.True(t, IsTransient(FromPg(context.DeadlineExceeded, "stock")))
	assert.True(t, IsTransient(FromPg(context.Canceled, "stock")))
}

func TestFromPgDefaultsToFatal(t *testing.T) {
	err := FromPg(errors.New("boom"), "stock")
	var fatal *FatalError
	assert.True(t, errors.As(err, &fatal))

	unexpected := &pgconn.PgError{Code: "42703"}
	assert.True(t, errors.As(FromPg(unexpected, "stock"), &fatal))
}

func TestFromPgNil(t *testing.T) {
	assert.NoError(t, FromPg(nil, "stock"))
}

func TestPredicatesMatchWrappedErrors(t *testing.T) {
	assert.True(t, IsValidation(fmt.Errorf("post: %w", Validation("delta", "must not be zero"))))
	assert.True(t, IsNotFound(fmt.Errorf("post: %w", NotFound("product", "p1"))))
	assert.True(t, IsConflict(fmt.Errorf("post: %w", Conflict("sale", "duplicate number"))))
	assert.True(t, IsInsufficientStock(fmt.Errorf("post: %w", InsufficientStock(2, 5))))
	assert.True(t, IsTransient(fmt.Errorf("post: %w", Transient(errors.New("io")))))
}

func TestInsufficientStockMessage(t *testing.T) {
	err := InsufficientStock(2, 5)
	assert.Equal(t, "insufficient stock: have 2, want 5", err.Error())
}
