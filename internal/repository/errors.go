// internal/repository/errors.go
package repository

import (
	"errors"
	"strings"

	"github.com/dangerclosesec/liaison/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// storeError maps driver errors onto the domain taxonomy. A foreign key
// violation names the offending column as a validation error so the caller
// sees the same shape it gets from params validation.
func storeError(op string, err error) error {
	if isNotFound(err) {
		return domain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return domain.NewValidationError(fieldFromConstraint(pgErr.TableName, pgErr.ConstraintName), "does not reference an existing record")
		case pgUniqueViolation:
			return errors.Join(domain.ErrConflict, &domain.StoreError{Op: op, Err: err})
		}
	}

	return &domain.StoreError{Op: op, Err: err}
}

// fieldFromConstraint turns "liaison_requests_forwarded_to_supplier_id_fkey"
// into "forwardedToSupplierId".
func fieldFromConstraint(table, constraint string) string {
	column := strings.TrimSuffix(constraint, "_fkey")
	column = strings.TrimPrefix(column, table+"_")
	if column == "" {
		return "id"
	}

	parts := strings.Split(column, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
