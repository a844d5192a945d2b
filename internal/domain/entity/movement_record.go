package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento del libro.
type MovementKind string

// Tipos de movimiento.
const (
	MovementKindIN     MovementKind = "IN"     // entrada: suma Quantity
	MovementKindOUT    MovementKind = "OUT"    // salida: resta Quantity
	MovementKindADJUST MovementKind = "ADJUST" // ajuste: Quantity es el saldo absoluto resultante
)

// Valid indica si el tipo es uno de los reconocidos.
func (k MovementKind) Valid() bool {
	switch k {
	case MovementKindIN, MovementKindOUT, MovementKindADJUST:
		return true
	}
	return false
}

// MovementRecord es una fila inmutable del libro de movimientos.
// PreviousBalance y NewBalance se fijan al construirla y nunca cambian.
type MovementRecord struct {
	ID              string
	Sequence        int64 // asignado por la base; desempata el orden de creación
	ItemID          string
	Kind            MovementKind
	Quantity        int64
	UnitPrice       *decimal.Decimal
	TotalValue      *decimal.Decimal // UnitPrice * Quantity cuando hay precio
	PreviousBalance int64
	NewBalance      int64
	Reference       string
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
}
