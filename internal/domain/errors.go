package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrAlertNotFound = errors.New("alerta no encontrada")

	// Taxonomía del motor de movimientos.
	ErrInvalidQuantity     = errors.New("cantidad o tipo de movimiento inválido")
	ErrItemNotFound        = errors.New("ítem no encontrado o inactivo")
	ErrInsufficientBalance = errors.New("saldo insuficiente")
	ErrConcurrencyConflict = errors.New("ítem ocupado por otro movimiento, reintente")
	ErrPersistence         = errors.New("falla de persistencia")
)

// IsRetryable indica si el caller puede reintentar la operación (conflicto de concurrencia).
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
