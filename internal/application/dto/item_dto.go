package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un ítem del catálogo. El saldo inicia en 0.
type CreateItemRequest struct {
	Code        string          `json:"code" validate:"required,min=1,max=50"`
	Name        string          `json:"name" validate:"required,min=1,max=200"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id"`
	SupplierID  string          `json:"supplier_id"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Minimum     int64           `json:"minimum"`
	Maximum     int64           `json:"maximum"`
}

// UpdateItemRequest entrada para actualizar un ítem (sin saldo: solo vía movimientos).
type UpdateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	CategoryID  *string          `json:"category_id"`
	SupplierID  *string          `json:"supplier_id"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	Minimum     *int64           `json:"minimum"`
	Maximum     *int64           `json:"maximum"`
	IsActive    *bool            `json:"is_active"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	CategoryID  string          `json:"category_id,omitempty"`
	SupplierID  string          `json:"supplier_id,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Balance     int64           `json:"balance"`
	Minimum     int64           `json:"minimum"`
	Maximum     int64           `json:"maximum"`
	Status      string          `json:"status"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
