package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/alerts"
	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC           *usecase.ItemUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Ledger           *inventory.LedgerUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Import           *inventory.ImportUseCase
	Alerts           *alerts.AlertManager
	DashboardUC      *appanalytics.DashboardUseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token: el actor firma cada movimiento y resolución.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)

	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Ledger, deps.Replenishment, deps.Import)
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/items/:id/audit", inventoryHandler.AuditItem)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)
	invGroup.Get("/replenishment-list/pdf", inventoryHandler.GetReplenishmentPDF)
	invGroup.Post("/import", inventoryHandler.Import)
	invGroup.Post("/import/csv", inventoryHandler.ImportCSV)

	alertGroup := protected.Group("/alerts")
	alertHandler := NewAlertHandler(deps.Alerts)
	alertGroup.Get("/", alertHandler.ListUnresolved)
	alertGroup.Post("/sweep", alertHandler.Sweep)
	alertGroup.Post("/:id/resolve", alertHandler.Resolve)

	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
	dashboard.Get("/movement-stats", dashboardHandler.GetMovementStats)
	dashboard.Get("/overview", dashboardHandler.GetOverview)
}
