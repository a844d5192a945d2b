package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `sequence, id, item_id, kind, quantity, unit_price, total_value, previous_balance, new_balance, reference, notes, created_by, created_at`

// MovementRepo libro de movimientos sobre SQLite. Los triggers del esquema rechazan UPDATE y DELETE.
type MovementRepo struct {
	q sqlx.ExtContext
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(q sqlx.ExtContext) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento; Sequence toma el rowid autoincremental.
func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementRecord) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO stock_movements (id, item_id, kind, quantity, unit_price, total_value, previous_balance, new_balance, reference, notes, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ItemID, string(m.Kind), m.Quantity, decimalText(m.UnitPrice), decimalText(m.TotalValue),
		m.PreviousBalance, m.NewBalance, m.Reference, m.Notes, m.CreatedBy, toUnix(m.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("movement sequence: %w", err)
	}
	m.Sequence = seq
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.MovementRecord, error) {
	var row movementRow
	err := sqlx.GetContext(ctx, r.q, &row, `SELECT `+movementColumns+` FROM stock_movements WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return row.toEntity(), nil
}

// List movimientos filtrados en orden (created_at, sequence) ascendente.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	if filter.ItemID != "" {
		query += " AND item_id = ?"
		args = append(args, filter.ItemID)
	}
	if filter.Kind != "" {
		query += " AND kind = ?"
		args = append(args, string(filter.Kind))
	}
	if filter.From != nil {
		query += " AND created_at >= ?"
		args = append(args, toUnix(*filter.From))
	}
	if filter.To != nil {
		query += " AND created_at <= ?"
		args = append(args, toUnix(*filter.To))
	}
	if filter.BySequence {
		query += " ORDER BY sequence"
	} else {
		query += " ORDER BY created_at, sequence"
	}
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	var rows []movementRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	list := make([]*entity.MovementRecord, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
