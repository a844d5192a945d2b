package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/csvimport"
)

// InventoryHandler movimientos, libro, auditoría, reposición e importación (protegido).
type InventoryHandler struct {
	register      *inventory.RegisterMovementUseCase
	ledger        *inventory.LedgerUseCase
	replenishment *inventory.ReplenishmentUseCase
	importer      *inventory.ImportUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	register *inventory.RegisterMovementUseCase,
	ledger *inventory.LedgerUseCase,
	replenishment *inventory.ReplenishmentUseCase,
	importer *inventory.ImportUseCase,
) *InventoryHandler {
	return &InventoryHandler{register: register, ledger: ledger, replenishment: replenishment, importer: importer}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento
// @Description  IN suma, OUT resta (nunca deja saldo negativo), ADJUST fija el saldo absoluto.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "item_id, kind, quantity, unit_price opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.Kind = strings.ToUpper(strings.TrimSpace(in.Kind))
	out, err := h.register.RegisterMovementFromRequest(c.Context(), actorID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovements godoc
// @Summary      Consultar libro de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        item_id    query  string  false  "ID del ítem"
// @Param        kind       query  string  false  "IN | OUT | ADJUST"
// @Param        date_from  query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        date_to    query  string  false  "RFC3339 o YYYY-MM-DD (día completo)"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.LedgerResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, ok := parseDateParam(c.Query("date_from"), false)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_from inválido"})
	}
	to, ok := parseDateParam(c.Query("date_to"), true)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date_to inválido"})
	}
	out, err := h.ledger.QueryLedger(c.Context(), dto.LedgerQuery{
		ItemID:   c.Query("item_id"),
		Kind:     strings.ToUpper(c.Query("kind")),
		DateFrom: from,
		DateTo:   to,
		Page:     pageFromQuery(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AuditItem godoc
// @Summary      Auditar saldo de un ítem
// @Description  Reproduce el libro del ítem y lo compara con el saldo almacenado.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del ítem"
// @Success      200  {object}  dto.AuditResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/items/{id}/audit [get]
func (h *InventoryHandler) AuditItem(c *fiber.Ctx) error {
	out, err := h.ledger.AuditItem(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Ítems activos en o bajo su mínimo con cantidad sugerida (máximo - saldo) y costo estimado.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	list, err := h.replenishment.GenerateReplenishmentList(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetReplenishmentPDF godoc
// @Summary      Lista de reposición en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}    binary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list/pdf [get]
func (h *InventoryHandler) GetReplenishmentPDF(c *fiber.Ctx) error {
	doc, err := h.replenishment.GenerateReplenishmentPDF(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="reposicion-`+time.Now().UTC().Format("20060102")+`.pdf"`)
	return c.Send(doc)
}

// Import godoc
// @Summary      Importación masiva de ítems
// @Description  Crea o actualiza el catálogo; los saldos se aplican como ADJUST con referencia IMPORT.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportRequest  true  "Filas ya parseadas"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/import [post]
func (h *InventoryHandler) Import(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	var in dto.ImportRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.Rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "rows es requerido"})
	}
	out, err := h.importer.Import(c.Context(), actorID, in.Rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ImportCSV godoc
// @Summary      Importación masiva desde archivo CSV
// @Description  Columnas: code, name, description, category, supplier, unit_price, minimum_stock, maximum_stock, current_stock.
// @Tags         inventory
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file      formData  file    true   "Archivo CSV"
// @Param        encoding  formData  string  false  "utf-8 (defecto) | latin1"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/import/csv [post]
func (h *InventoryHandler) ImportCSV(c *fiber.Ctx) error {
	actorID := GetActorID(c)
	if actorID == "" {
		return unauthorized(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo CSV requerido en el campo file"})
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".csv") {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "el archivo debe ser un CSV"})
	}
	f, err := fh.Open()
	if err != nil {
		return badBody(c)
	}
	defer f.Close()

	rows, parseErrs, err := csvimport.ReadRows(f, c.FormValue("encoding"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	out, err := h.importer.Import(c.Context(), actorID, rows)
	if err != nil {
		return writeError(c, err)
	}
	out.Errors = append(parseErrs, out.Errors...)
	return c.JSON(out)
}

// parseDateParam vacío = sin filtro. Con endOfDay una fecha YYYY-MM-DD cubre el día completo (UTC).
func parseDateParam(raw string, endOfDay bool) (*time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}
