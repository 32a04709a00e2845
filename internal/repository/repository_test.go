package repository

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"tradeledger/internal/domain"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))

	assert.ErrorIs(t, mapError(pgx.ErrNoRows), domain.ErrNotFound)

	uniqueViolation := &pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "accounts_username_key"}
	assert.ErrorIs(t, mapError(uniqueViolation), domain.ErrConflict)

	// Other constraint violations pass through untranslated
	fkViolation := &pgconn.PgError{Code: "23503"}
	assert.NotErrorIs(t, mapError(fkViolation), domain.ErrConflict)

	wrapped := fmt.Errorf("query failed: %w", pgx.ErrNoRows)
	assert.ErrorIs(t, mapError(wrapped), domain.ErrNotFound)
}
