package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	TotalItems       int64           `json:"total_items"`
	LowBalanceItems  int64           `json:"low_balance_items"`  // saldo <= mínimo
	OutOfStockItems  int64           `json:"out_of_stock_items"` // saldo = 0
	InventoryValue   decimal.Decimal `json:"inventory_value"`    // suma saldo * precio unitario
	UnresolvedAlerts int64           `json:"unresolved_alerts"`
}

// MovementStatsDTO cantidades por día y tipo para GET /api/dashboard/movement-stats.
// Days: "2026-10-01" -> {"IN": 30, "OUT": 12, "ADJUST": 0}
type MovementStatsDTO struct {
	From string                      `json:"from"`
	To   string                      `json:"to"`
	Days map[string]map[string]int64 `json:"days"`
}

// DashboardOverviewDTO respuesta de GET /api/dashboard/overview.
type DashboardOverviewDTO struct {
	Summary       DashboardSummaryDTO `json:"summary"`
	MovementStats MovementStatsDTO    `json:"movement_stats"`
}
