package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `id, sequence, item_id, kind, quantity, unit_price, total_value, previous_balance, new_balance, reference, notes, created_by, created_at`

// MovementRepo libro de movimientos sobre PostgreSQL (usable con pool o tx). Solo inserta y lee.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento y asigna Sequence desde la base.
func (r *MovementRepo) Create(ctx context.Context, m *entity.MovementRecord) error {
	query := `
		INSERT INTO stock_movements (id, item_id, kind, quantity, unit_price, total_value, previous_balance, new_balance, reference, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING sequence`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.ItemID, string(m.Kind), m.Quantity, nullDecimal(m.UnitPrice), nullDecimal(m.TotalValue),
		m.PreviousBalance, m.NewBalance, m.Reference, m.Notes, m.CreatedBy, m.CreatedAt,
	).Scan(&m.Sequence)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List devuelve los movimientos filtrados en orden (created_at, sequence) ascendente.
func (r *MovementRepo) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.MovementRecord, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	var args []any
	if filter.ItemID != "" {
		args = append(args, filter.ItemID)
		query += fmt.Sprintf(" AND item_id = $%d", len(args))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if filter.BySequence {
		query += " ORDER BY sequence"
	} else {
		query += " ORDER BY created_at, sequence"
	}
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var (
		m            entity.MovementRecord
		kind         string
		price, total decimal.NullDecimal
	)
	err := row.Scan(
		&m.ID, &m.Sequence, &m.ItemID, &kind, &m.Quantity, &price, &total,
		&m.PreviousBalance, &m.NewBalance, &m.Reference, &m.Notes, &m.CreatedBy, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Kind = entity.MovementKind(kind)
	if price.Valid {
		m.UnitPrice = &price.Decimal
	}
	if total.Valid {
		m.TotalValue = &total.Decimal
	}
	return &m, nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
