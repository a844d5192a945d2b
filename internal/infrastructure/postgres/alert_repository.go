package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

const alertColumns = `id, item_id, balance_snapshot, minimum_snapshot, is_resolved, created_at, resolved_at, resolved_by`

// AlertRepo alertas de saldo bajo sobre PostgreSQL.
// La unicidad de la alerta abierta por ítem la garantiza el índice parcial ux_low_balance_alerts_open.
type AlertRepo struct {
	q Querier
}

// NewAlertRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

// CreateIfAbsent inserta la alerta salvo que el ítem ya tenga una sin resolver.
func (r *AlertRepo) CreateIfAbsent(ctx context.Context, a *entity.LowBalanceAlert) (bool, error) {
	query := `
		INSERT INTO low_balance_alerts (id, item_id, balance_snapshot, minimum_snapshot, is_resolved, created_at, resolved_by)
		VALUES ($1, $2, $3, $4, FALSE, $5, '')
		ON CONFLICT (item_id) WHERE NOT is_resolved DO NOTHING`
	cmd, err := r.q.Exec(ctx, query, a.ID, a.ItemID, a.BalanceSnapshot, a.MinimumSnapshot, a.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert alert: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// GetByID obtiene una alerta por ID.
func (r *AlertRepo) GetByID(ctx context.Context, id string) (*entity.LowBalanceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM low_balance_alerts WHERE id = $1`
	return r.getOne(ctx, "get alert", query, id)
}

// GetUnresolvedByItem devuelve la alerta abierta del ítem, o nil.
func (r *AlertRepo) GetUnresolvedByItem(ctx context.Context, itemID string) (*entity.LowBalanceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM low_balance_alerts WHERE item_id = $1 AND NOT is_resolved`
	return r.getOne(ctx, "get unresolved alert", query, itemID)
}

func (r *AlertRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.LowBalanceAlert, error) {
	a, err := scanAlert(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return a, nil
}

// Resolve marca la alerta como resuelta solo si sigue abierta; resolved_at no se reescribe.
func (r *AlertRepo) Resolve(ctx context.Context, id, actorID string, at time.Time) (bool, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE low_balance_alerts SET is_resolved = TRUE, resolved_at = $2, resolved_by = $3
		WHERE id = $1 AND NOT is_resolved`, id, at, actorID)
	if err != nil {
		return false, fmt.Errorf("resolve alert: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// ListUnresolved lista alertas abiertas, las más recientes primero.
func (r *AlertRepo) ListUnresolved(ctx context.Context, limit, offset int) ([]*entity.LowBalanceAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM low_balance_alerts
		WHERE NOT is_resolved ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list unresolved alerts: %w", err)
	}
	defer rows.Close()

	var list []*entity.LowBalanceAlert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAlert(row pgx.Row) (*entity.LowBalanceAlert, error) {
	var a entity.LowBalanceAlert
	if err := row.Scan(
		&a.ID, &a.ItemID, &a.BalanceSnapshot, &a.MinimumSnapshot, &a.IsResolved,
		&a.CreatedAt, &a.ResolvedAt, &a.ResolvedBy,
	); err != nil {
		return nil, err
	}
	return &a, nil
}
