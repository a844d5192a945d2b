package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/alerts"
)

// AlertHandler alertas de saldo bajo (protegido).
type AlertHandler struct {
	manager *alerts.AlertManager
}

// NewAlertHandler construye el handler.
func NewAlertHandler(manager *alerts.AlertManager) *AlertHandler {
	return &AlertHandler{manager: manager}
}

// ListUnresolved godoc
// @Summary      Alertas abiertas
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {array}  dto.AlertResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) ListUnresolved(c *fiber.Ctx) error {
	page := pageFromQuery(c)
	out, err := h.manager.ListUnresolved(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Resolver alerta
// @Description  Idempotente: resolver una alerta ya resuelta devuelve el mismo registro.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la alerta"
// @Success      200  {object}  dto.AlertResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	alert, err := h.manager.Resolve(c.Context(), c.Params("id"), actorID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(alerts.ToAlertResponse(alert))
}

// Sweep godoc
// @Summary      Barrido de alertas
// @Description  Evalúa todos los ítems activos; crea alertas faltantes sin duplicar.
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SweepResponse
// @Router       /api/alerts/sweep [post]
func (h *AlertHandler) Sweep(c *fiber.Ctx) error {
	out, err := h.manager.SweepActive(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
