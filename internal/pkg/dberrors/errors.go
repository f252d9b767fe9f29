// Package dberrors classifies PostgreSQL errors returned through pgx
package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories react to
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
)

func code(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil, false
	}
	return pgErr, true
}

// IsUniqueViolation reports a unique_violation on any constraint
func IsUniqueViolation(err error) bool {
	pgErr, ok := code(err)
	return ok && pgErr.Code == CodeUniqueViolation
}

// IsDuplicateConstraintError checks if the error is a unique violation of one named constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	pgErr, ok := code(err)
	return ok && pgErr.Code == CodeUniqueViolation && pgErr.ConstraintName == constraintName
}

// IsForeignKeyViolation reports a foreign_key_violation, e.g. a dangling specialty id
func IsForeignKeyViolation(err error) bool {
	pgErr, ok := code(err)
	return ok && pgErr.Code == CodeForeignKeyViolation
}
