package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ItemRepository    = (*ItemRepo)(nil)
	_ repository.ItemBalanceWriter = (*balanceWriter)(nil)
)

const itemColumns = `id, code, name, description, category_id, supplier_id, unit_price, balance, minimum, maximum, is_active, created_at, updated_at`

// ItemRepo catálogo de ítems sobre SQLite. Acepta *sqlx.DB o *sqlx.Tx.
type ItemRepo struct {
	q sqlx.ExtContext
}

// NewItemRepository construye el adaptador.
func NewItemRepository(q sqlx.ExtContext) *ItemRepo {
	return &ItemRepo{q: q}
}

// Create persiste un nuevo ítem con saldo 0.
func (r *ItemRepo) Create(ctx context.Context, item *entity.Item) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?)`,
		item.ID, item.Code, item.Name, item.Description, item.CategoryID, item.SupplierID,
		item.UnitPrice.String(), item.Minimum, item.Maximum, item.IsActive,
		toUnix(item.CreatedAt), toUnix(item.UpdatedAt),
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

func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE id = ?`, id)
}

func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.Item, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM items WHERE code = ?`, code)
}

func (r *ItemRepo) getOne(ctx context.Context, query string, arg any) (*entity.Item, error) {
	var row itemRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return row.toEntity(), nil
}

// UpdateDetails actualiza los campos de catálogo sin tocar balance.
func (r *ItemRepo) UpdateDetails(ctx context.Context, item *entity.Item) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE items SET name = ?, description = ?, category_id = ?, supplier_id = ?,
			unit_price = ?, minimum = ?, maximum = ?, is_active = ?, updated_at = ?
		WHERE id = ?`,
		item.Name, item.Description, item.CategoryID, item.SupplierID,
		item.UnitPrice.String(), item.Minimum, item.Maximum, item.IsActive, toUnix(item.UpdatedAt), item.ID,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List ítems filtrados, ordenados por código. LOW incluye agotados.
func (r *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]*entity.Item, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ActiveOnly {
		conds = append(conds, "is_active = 1")
	}
	switch filter.Status {
	case entity.BalanceStatusOutOfStock:
		conds = append(conds, "balance = 0")
	case entity.BalanceStatusLow:
		conds = append(conds, "balance <= minimum")
	case entity.BalanceStatusHigh:
		conds = append(conds, "balance >= maximum")
	case entity.BalanceStatusNormal:
		conds = append(conds, "balance > minimum AND balance < maximum")
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		conds = append(conds, "(code LIKE ? OR name LIKE ?)")
		args = append(args, "%"+s+"%", "%"+s+"%")
	}

	query := `SELECT ` + itemColumns + ` FROM items`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY code"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	var rows []itemRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	list := make([]*entity.Item, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}

func (r *ItemRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := sqlx.SelectContext(ctx, r.q, &ids, `SELECT id FROM items WHERE is_active = 1 ORDER BY code`); err != nil {
		return nil, fmt.Errorf("list active item ids: %w", err)
	}
	return ids, nil
}

// balanceWriter saldo de ítems; solo lo construye TxRunner.Run sobre su *sqlx.Tx.
type balanceWriter struct {
	q sqlx.ExtContext
}

// GetForUpdate en SQLite la transacción ya tiene la única conexión; basta una lectura normal.
func (w *balanceWriter) GetForUpdate(ctx context.Context, id string) (*entity.Item, error) {
	return (&ItemRepo{q: w.q}).GetByID(ctx, id)
}

func (w *balanceWriter) UpdateBalance(ctx context.Context, id string, balance int64, at time.Time) error {
	res, err := w.q.ExecContext(ctx, `UPDATE items SET balance = ?, updated_at = ? WHERE id = ?`, balance, toUnix(at), id)
	if err != nil {
		return fmt.Errorf("update item balance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}
