package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el tablero y la reposición.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

// GetStockSummary totales sobre ítems activos.
// Usa COALESCE para devolver cero si no hay filas.
func (r *AnalyticsRepo) GetStockSummary(ctx context.Context) (*repository.StockSummary, error) {
	const query = `
	SELECT
	    COUNT(*) FILTER (WHERE is_active)                                   AS total_items,
	    COUNT(*) FILTER (WHERE is_active AND balance <= minimum)            AS low_items,
	    COUNT(*) FILTER (WHERE is_active AND balance = 0)                   AS out_of_stock,
	    COALESCE(SUM(balance * unit_price) FILTER (WHERE is_active), 0)     AS inventory_value,
	    (SELECT COUNT(*) FROM low_balance_alerts WHERE NOT is_resolved)     AS open_alerts
	FROM items`

	var s repository.StockSummary
	err := r.pool.QueryRow(ctx, query).Scan(
		&s.TotalItems, &s.LowBalanceItems, &s.OutOfStockItems, &s.InventoryValue, &s.UnresolvedAlerts,
	)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetStockSummary: %w", err)
	}
	return &s, nil
}

// GetDailyMovementStats agrupa el libro por día UTC y tipo dentro de [from, to].
func (r *AnalyticsRepo) GetDailyMovementStats(ctx context.Context, from, to time.Time) ([]repository.DailyMovementStat, error) {
	const query = `
	SELECT
	    to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day,
	    kind,
	    COUNT(*)                                              AS movements,
	    COALESCE(SUM(quantity), 0)                            AS total_quantity
	FROM stock_movements
	WHERE created_at BETWEEN $1 AND $2
	GROUP BY day, kind
	ORDER BY day, kind`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetDailyMovementStats: %w", err)
	}
	defer rows.Close()

	var results []repository.DailyMovementStat
	for rows.Next() {
		var s repository.DailyMovementStat
		if err := rows.Scan(&s.Day, &s.Kind, &s.Count, &s.TotalQuantity); err != nil {
			return nil, fmt.Errorf("analytics.GetDailyMovementStats scan: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

// GetItemsAtOrBelowMinimum ítems activos con balance <= minimum (base de la lista de reposición).
func (r *AnalyticsRepo) GetItemsAtOrBelowMinimum(ctx context.Context) ([]repository.ReplenishmentItem, error) {
	const query = `
	SELECT id, code, name, balance, minimum, maximum, unit_price
	FROM items
	WHERE is_active AND balance <= minimum
	ORDER BY code`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetItemsAtOrBelowMinimum: %w", err)
	}
	defer rows.Close()

	var results []repository.ReplenishmentItem
	for rows.Next() {
		var it repository.ReplenishmentItem
		if err := rows.Scan(&it.ItemID, &it.Code, &it.Name, &it.Balance, &it.Minimum, &it.Maximum, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("analytics.GetItemsAtOrBelowMinimum scan: %w", err)
		}
		results = append(results, it)
	}
	return results, rows.Err()
}
