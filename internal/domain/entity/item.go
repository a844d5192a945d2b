package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de saldo derivados de Balance, Minimum y Maximum.
const (
	BalanceStatusOutOfStock = "OUT_OF_STOCK"
	BalanceStatusLow        = "LOW"
	BalanceStatusHigh       = "HIGH"
	BalanceStatusNormal     = "NORMAL"
)

// Item representa un ítem del catálogo con su saldo actual.
// Balance solo lo modifica el procesador de movimientos; el catálogo nunca lo escribe.
type Item struct {
	ID          string
	Code        string // código único
	Name        string
	Description string
	CategoryID  string // llave foránea opaca
	SupplierID  string // llave foránea opaca
	UnitPrice   decimal.Decimal
	Balance     int64
	Minimum     int64
	Maximum     int64
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowBalance es verdadero cuando el saldo está en o por debajo del mínimo.
func (i *Item) IsLowBalance() bool {
	return i.Balance <= i.Minimum
}

// BalanceStatus clasifica el saldo actual.
func (i *Item) BalanceStatus() string {
	switch {
	case i.Balance == 0:
		return BalanceStatusOutOfStock
	case i.Balance <= i.Minimum:
		return BalanceStatusLow
	case i.Balance >= i.Maximum:
		return BalanceStatusHigh
	default:
		return BalanceStatusNormal
	}
}

// ValidBounds valida los límites editables: minimum >= 0, maximum >= 1, minimum < maximum, precio >= 0.
func (i *Item) ValidBounds() bool {
	if i.Minimum < 0 || i.Maximum < 1 || i.Minimum >= i.Maximum {
		return false
	}
	return !i.UnitPrice.IsNegative()
}
