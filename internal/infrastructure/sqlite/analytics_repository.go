package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo lecturas agregadas sobre SQLite.
type AnalyticsRepo struct {
	db *sqlx.DB
}

// NewAnalyticsRepository construye el adaptador.
func NewAnalyticsRepository(db *sqlx.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// GetStockSummary el valor de inventario se suma en Go: SQLite solo tiene aritmética REAL.
func (r *AnalyticsRepo) GetStockSummary(ctx context.Context) (*repository.StockSummary, error) {
	var counts struct {
		Total      int64 `db:"total_items"`
		Low        int64 `db:"low_items"`
		OutOfStock int64 `db:"out_of_stock"`
		OpenAlerts int64 `db:"open_alerts"`
	}
	err := r.db.GetContext(ctx, &counts, `
		SELECT
		    COUNT(*)                                                      AS total_items,
		    COALESCE(SUM(CASE WHEN balance <= minimum THEN 1 ELSE 0 END), 0) AS low_items,
		    COALESCE(SUM(CASE WHEN balance = 0 THEN 1 ELSE 0 END), 0)        AS out_of_stock,
		    (SELECT COUNT(*) FROM low_balance_alerts WHERE is_resolved = 0)  AS open_alerts
		FROM items WHERE is_active = 1`)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetStockSummary: %w", err)
	}

	var valued []struct {
		Balance   int64           `db:"balance"`
		UnitPrice decimal.Decimal `db:"unit_price"`
	}
	if err := r.db.SelectContext(ctx, &valued, `SELECT balance, unit_price FROM items WHERE is_active = 1 AND balance > 0`); err != nil {
		return nil, fmt.Errorf("analytics.GetStockSummary value: %w", err)
	}
	value := decimal.Zero
	for _, v := range valued {
		value = value.Add(v.UnitPrice.Mul(decimal.NewFromInt(v.Balance)))
	}

	return &repository.StockSummary{
		TotalItems:       counts.Total,
		LowBalanceItems:  counts.Low,
		OutOfStockItems:  counts.OutOfStock,
		InventoryValue:   value,
		UnresolvedAlerts: counts.OpenAlerts,
	}, nil
}

// GetDailyMovementStats agrupa por día UTC y tipo dentro de [from, to].
func (r *AnalyticsRepo) GetDailyMovementStats(ctx context.Context, from, to time.Time) ([]repository.DailyMovementStat, error) {
	var rows []struct {
		Day           string `db:"day"`
		Kind          string `db:"kind"`
		Count         int64  `db:"movements"`
		TotalQuantity int64  `db:"total_quantity"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT
		    strftime('%Y-%m-%d', created_at / 1000000000, 'unixepoch') AS day,
		    kind,
		    COUNT(*)                   AS movements,
		    COALESCE(SUM(quantity), 0) AS total_quantity
		FROM stock_movements
		WHERE created_at BETWEEN ? AND ?
		GROUP BY day, kind
		ORDER BY day, kind`, toUnix(from), toUnix(to))
	if err != nil {
		return nil, fmt.Errorf("analytics.GetDailyMovementStats: %w", err)
	}
	stats := make([]repository.DailyMovementStat, 0, len(rows))
	for _, row := range rows {
		stats = append(stats, repository.DailyMovementStat(row))
	}
	return stats, nil
}

func (r *AnalyticsRepo) GetItemsAtOrBelowMinimum(ctx context.Context) ([]repository.ReplenishmentItem, error) {
	var rows []struct {
		ItemID    string          `db:"item_id"`
		Code      string          `db:"code"`
		Name      string          `db:"name"`
		Balance   int64           `db:"balance"`
		Minimum   int64           `db:"minimum"`
		Maximum   int64           `db:"maximum"`
		UnitPrice decimal.Decimal `db:"unit_price"`
	}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id AS item_id, code, name, balance, minimum, maximum, unit_price
		FROM items
		WHERE is_active = 1 AND balance <= minimum
		ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetItemsAtOrBelowMinimum: %w", err)
	}
	items := make([]repository.ReplenishmentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, repository.ReplenishmentItem(row))
	}
	return items, nil
}
