package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// StockSummary totales para el tablero.
type StockSummary struct {
	TotalItems       int64
	LowBalanceItems  int64
	OutOfStockItems  int64
	InventoryValue   decimal.Decimal // suma de balance * unit_price de ítems activos
	UnresolvedAlerts int64
}

// DailyMovementStat cantidad movida por día y tipo.
type DailyMovementStat struct {
	Day           string // YYYY-MM-DD (UTC)
	Kind          string
	Count         int64
	TotalQuantity int64
}

// ReplenishmentItem ítem activo en o bajo su mínimo.
type ReplenishmentItem struct {
	ItemID    string
	Code      string
	Name      string
	Balance   int64
	Minimum   int64
	Maximum   int64
	UnitPrice decimal.Decimal
}

// AnalyticsRepository lecturas agregadas de solo lectura sobre ítems y libro.
type AnalyticsRepository interface {
	GetStockSummary(ctx context.Context) (*StockSummary, error)
	GetDailyMovementStats(ctx context.Context, from, to time.Time) ([]DailyMovementStat, error)
	GetItemsAtOrBelowMinimum(ctx context.Context) ([]ReplenishmentItem, error)
}
