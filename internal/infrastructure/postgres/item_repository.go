package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ItemRepository    = (*ItemRepo)(nil)
	_ repository.ItemBalanceWriter = (*balanceWriter)(nil)
)

const itemColumns = `id, code, name, description, category_id, supplier_id, unit_price, balance, minimum, maximum, is_active, created_at, updated_at`

// ItemRepo implementación del puerto de catálogo ItemRepository sobre PostgreSQL.
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de persistencia para ítems. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo ítem. El saldo siempre inicia en 0.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	query := `
		INSERT INTO items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Name, item.Description, item.CategoryID, item.SupplierID,
		item.UnitPrice, item.Minimum, item.Maximum, item.IsActive, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	item.Balance = 0
	return nil
}

// GetByID obtiene un ítem por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1`
	return r.getOne(ctx, "get item", query, id)
}

// GetByCode obtiene un ítem por código.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE code = $1`
	return r.getOne(ctx, "get item by code", query, code)
}

func (r *ItemRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.Item, error) {
	item, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return item, nil
}

// UpdateDetails actualiza los campos de catálogo. No toca balance.
func (r *ItemRepo) UpdateDetails(ctx context.Context, item *entity.Item) error {
	query := `
		UPDATE items SET name = $2, description = $3, category_id = $4, supplier_id = $5,
			unit_price = $6, minimum = $7, maximum = $8, is_active = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Description, item.CategoryID, item.SupplierID,
		item.UnitPrice, item.Minimum, item.Maximum, item.IsActive, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista ítems con filtros opcionales de estado, búsqueda y actividad, ordenados por código.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if cond := statusCondition(filter.Status); cond != "" {
		conds = append(conds, cond)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		conds = append(conds, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", len(args), len(args)))
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY code"
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
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

// ListActiveIDs devuelve los IDs de todos los ítems activos (usado por el barrido de alertas).
func (r *ItemRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM items WHERE is_active ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list active item ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// statusCondition traduce el filtro de estado a SQL. LOW incluye los ítems agotados.
func statusCondition(status string) string {
	switch status {
	case entity.BalanceStatusOutOfStock:
		return "balance = 0"
	case entity.BalanceStatusLow:
		return "balance <= minimum"
	case entity.BalanceStatusHigh:
		return "balance >= maximum"
	case entity.BalanceStatusNormal:
		return "balance > minimum AND balance < maximum"
	}
	return ""
}

func scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.Description, &it.CategoryID, &it.SupplierID,
		&it.UnitPrice, &it.Balance, &it.Minimum, &it.Maximum, &it.IsActive, &it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// balanceWriter lectura bloqueante y escritura del saldo; solo se construye sobre una tx en TxRunner.Run.
type balanceWriter struct {
	q Querier
}

// GetForUpdate lee el ítem con SELECT ... FOR UPDATE.
func (w *balanceWriter) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 FOR UPDATE`
	return (&ItemRepo{q: w.q}).getOne(ctx, "get item for update", query, id)
}

// UpdateBalance fija el saldo.
func (w *balanceWriter) UpdateBalance(ctx context.Context, id string, balance int64, at time.Time) error {
	cmd, err := w.q.Exec(ctx, `UPDATE items SET balance = $2, updated_at = $3 WHERE id = $1`, id, balance, at)
	if err != nil {
		return fmt.Errorf("update item balance: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
