package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, item_id, balance_snapshot, minimum_snapshot, is_resolved, created_at, resolved_at, resolved_by`

// AlertRepo alertas sobre SQLite; ux_low_balance_alerts_open impide dos abiertas por ítem.
type AlertRepo struct {
	q sqlx.ExtContext
}

// NewAlertRepository construye el adaptador.
func NewAlertRepository(q sqlx.ExtContext) *AlertRepo {
	return &AlertRepo{q: q}
}

func (r *AlertRepo) CreateIfAbsent(ctx context.Context, a *entity.LowBalanceAlert) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO low_balance_alerts (id, item_id, balance_snapshot, minimum_snapshot, is_resolved, created_at, resolved_by)
		VALUES (?, ?, ?, ?, 0, ?, '')
		ON CONFLICT DO NOTHING`,
		a.ID, a.ItemID, a.BalanceSnapshot, a.MinimumSnapshot, toUnix(a.CreatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("insert alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert alert: %w", err)
	}
	return n == 1, nil
}

func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.LowBalanceAlert, error) {
	return r.getOne(ctx, `SELECT `+alertColumns+` FROM low_balance_alerts WHERE id = ?`, id)
}

func (r *AlertRepo) GetUnresolvedByItem(ctx context.Context, itemID string) (*entity.LowBalanceAlert, error) {
	return r.getOne(ctx, `SELECT `+alertColumns+` FROM low_balance_alerts WHERE item_id = ? AND is_resolved = 0`, itemID)
}

func (r *AlertRepo) getOne(ctx context.Context, query string, arg any) (*entity.LowBalanceAlert, error) {
	var row alertRow
	if err := sqlx.GetContext(ctx, r.q, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get alert: %w", err)
	}
	return row.toEntity(), nil
}

// Resolve solo actualiza alertas abiertas; una segunda llamada no cambia resolved_at.
func (r *AlertRepo) Resolve(ctx context.Context, id, actorID string, at time.Time) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE low_balance_alerts SET is_resolved = 1, resolved_at = ?, resolved_by = ?
		WHERE id = ? AND is_resolved = 0`, toUnix(at), actorID, id)
	if err != nil {
		return false, fmt.Errorf("resolve alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolve alert: %w", err)
	}
	return n == 1, nil
}

func (r *AlertRepo) ListUnresolved(ctx context.Context, limit, offset int) ([]*entity.LowBalanceAlert, error) {
	var rows []alertRow
	err := sqlx.SelectContext(ctx, r.q, &rows, `SELECT `+alertColumns+` FROM low_balance_alerts
		WHERE is_resolved = 0 ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list unresolved alerts: %w", err)
	}
	list := make([]*entity.LowBalanceAlert, 0, len(rows))
	for _, row := range rows {
		list = append(list, row.toEntity())
	}
	return list, nil
}
