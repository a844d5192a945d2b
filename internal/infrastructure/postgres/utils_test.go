package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestMapTxError(t *testing.T) {
	for _, code := range []string{codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected} {
		err := mapTxError(fmt.Errorf("update: %w", &pgconn.PgError{Code: code}))
		assert.ErrorIs(t, err, domain.ErrConcurrencyConflict, code)
	}

	other := &pgconn.PgError{Code: "23514"}
	assert.Same(t, error(other), mapTxError(other))
	assert.NoError(t, mapTxError(nil))
	assert.False(t, errors.Is(mapTxError(domain.ErrInsufficientBalance), domain.ErrConcurrencyConflict))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestPreferIPv4(t *testing.T) {
	assert.Equal(t, "postgres://u:p@127.0.0.1:6543/db?sslmode=disable",
		preferIPv4("postgres://u:p@127.0.0.1:6543/db?sslmode=disable"))
	assert.Equal(t, "postgres://u:p@[::1]:5432/db", preferIPv4("postgres://u:p@[::1]:5432/db"), "IPv6 literal se deja igual")
	assert.Equal(t, "host=localhost user=u", preferIPv4("host=localhost user=u"), "DSN clave=valor se deja igual")
}
