package apperr

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE classes the repositories care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// FromPg maps a database error onto the taxonomy. Unique violations become
// Conflict, foreign-key violations NotFound (the referenced row is gone),
// check violations Validation. Cancelled contexts and connection-class
// failures are Transient; everything else is Fatal.
func FromPg(err error, resource string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Conflict(resource, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return NotFound(resource, pgErr.ConstraintName)
		case pgCheckViolation:
			return Validation(resource, "check constraint "+pgErr.ConstraintName)
		}
		// Class 08 is connection exception, class 40 transaction rollback
		// (serialization failure, deadlock): both safe to retry.
		if len(pgErr.Code) >= 2 && (pgErr.Code[:2] == "08" || pgErr.Code[:2] == "40") {
			return Transient(err)
		}
		return Fatal(err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return Transient(err)
	}

	return Fatal(err)
}
