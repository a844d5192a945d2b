package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run abre la tx, pasa repos atados a ella y hace Commit o Rollback.
// fn no debe usar el *sqlx.DB: la única conexión está tomada por la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(
	items repository.ItemBalanceWriter,
	movements repository.MovementRepository,
) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", mapTxError(err))
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(&balanceWriter{q: tx}, NewMovementRepository(tx)); err != nil {
		return mapTxError(err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", mapTxError(err))
	}
	return nil
}
