package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "institutions_destination_code_key"})
	fk := &pgconn.PgError{Code: CodeForeignKeyViolation}

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsDuplicateConstraintError(unique, "institutions_destination_code_key"))
	assert.False(t, IsDuplicateConstraintError(unique, "other_key"))
	assert.False(t, IsForeignKeyViolation(unique))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.False(t, IsUniqueViolation(fk))

	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.False(t, IsForeignKeyViolation(nil))
}
