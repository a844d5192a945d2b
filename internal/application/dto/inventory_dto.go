package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyMovementRequest body para POST /api/inventory/movements.
// Para ADJUST, quantity es el saldo absoluto resultante.
type ApplyMovementRequest struct {
	ItemID    string           `json:"item_id"`
	Kind      string           `json:"kind"` // IN | OUT | ADJUST
	Quantity  int64            `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	Reference string           `json:"reference,omitempty"`
	Notes     string           `json:"notes,omitempty"`
}

// MovementResponse resultado de aplicar un movimiento.
type MovementResponse struct {
	MovementID      string           `json:"movement_id"`
	PreviousBalance int64            `json:"previous_balance"`
	NewBalance      int64            `json:"new_balance"`
	TotalValue      *decimal.Decimal `json:"total_value,omitempty"`
}

// MovementRecordDTO fila del libro para consultas.
type MovementRecordDTO struct {
	ID              string           `json:"id"`
	ItemID          string           `json:"item_id"`
	Kind            string           `json:"kind"`
	Quantity        int64            `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price,omitempty"`
	TotalValue      *decimal.Decimal `json:"total_value,omitempty"`
	PreviousBalance int64            `json:"previous_balance"`
	NewBalance      int64            `json:"new_balance"`
	Reference       string           `json:"reference,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedBy       string           `json:"created_by"`
	CreatedAt       time.Time        `json:"created_at"`
}

// LedgerQuery filtros de GET /api/inventory/movements. Todos opcionales.
type LedgerQuery struct {
	ItemID   string
	Kind     string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     PageRequest
}

// LedgerResponse página del libro.
type LedgerResponse struct {
	Items []MovementRecordDTO `json:"items"`
	Page  PageResponse        `json:"page"`
}

// AuditResponse resultado de reproducir el libro de un ítem.
type AuditResponse struct {
	ItemID        string `json:"item_id"`
	Movements     int    `json:"movements"`
	ReplayBalance int64  `json:"replay_balance"`
	StoredBalance int64  `json:"stored_balance"`
	Consistent    bool   `json:"consistent"`
	Inconsistency string `json:"inconsistency,omitempty"`
}

// ImportRowRequest fila ya parseada de una importación masiva (ej. CSV).
// Balance nil = no tocar el saldo; si viene, se aplica como ADJUST por el motor.
type ImportRowRequest struct {
	Line        int             `json:"line,omitempty"` // línea del archivo de origen, para los mensajes de error
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id,omitempty"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Minimum     *int64          `json:"minimum,omitempty"`
	Maximum     *int64          `json:"maximum,omitempty"`
	Balance     *int64          `json:"balance,omitempty"`
}

// ImportRequest body para POST /api/inventory/import.
type ImportRequest struct {
	Rows []ImportRowRequest `json:"rows"`
}

// ImportResult resumen de la importación.
type ImportResult struct {
	Created  int      `json:"created"`
	Updated  int      `json:"updated"`
	Adjusted int      `json:"adjusted"`
	Errors   []string `json:"errors,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un ítem en o bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	ItemID             string          `json:"item_id"`
	Code               string          `json:"code"`
	Name               string          `json:"name"`
	Balance            int64           `json:"balance"`
	Minimum            int64           `json:"minimum"`
	Maximum            int64           `json:"maximum"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`  // Maximum - Balance
	UnitPrice          decimal.Decimal `json:"unit_price"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitPrice
	Priority           int             `json:"priority"`             // 1 = más urgente
}
