package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// DashboardHandler maneja los endpoints del tablero de inventario.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los totales del inventario.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (total_items, low_balance_items, out_of_stock_items,
// inventory_value, unresolved_alerts).
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// GetMovementStats cantidades IN/OUT/ADJUST por día.
// GET /api/dashboard/movement-stats?days=30
func (h *DashboardHandler) GetMovementStats(c *fiber.Ctx) error {
	stats, err := h.uc.GetMovementStats(c.Context(), c.QueryInt("days", 30))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(stats)
}

// GetOverview resumen y estadísticas en una sola respuesta.
// GET /api/dashboard/overview?days=30
func (h *DashboardHandler) GetOverview(c *fiber.Ctx) error {
	summary, stats, err := h.uc.GetOverview(c.Context(), c.QueryInt("days", 30))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DashboardOverviewDTO{Summary: *summary, MovementStats: *stats})
}
