package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ValidateQuantity valida tipo y cantidad antes de tocar el almacenamiento.
// IN/OUT exigen cantidad > 0; ADJUST acepta 0 (saldo absoluto destino).
func ValidateQuantity(kind entity.MovementKind, quantity int64) error {
	switch kind {
	case entity.MovementKindIN, entity.MovementKindOUT:
		if quantity <= 0 {
			return domain.ErrInvalidQuantity
		}
	case entity.MovementKindADJUST:
		if quantity < 0 {
			return domain.ErrInvalidQuantity
		}
	default:
		return domain.ErrInvalidQuantity
	}
	return nil
}

// NextBalance calcula el saldo resultante (servicio de dominio).
// IN: previo + cantidad; OUT: previo - cantidad (nunca negativo); ADJUST: cantidad.
func NextBalance(previous int64, kind entity.MovementKind, quantity int64) (int64, error) {
	if err := ValidateQuantity(kind, quantity); err != nil {
		return 0, err
	}
	switch kind {
	case entity.MovementKindIN:
		return previous + quantity, nil
	case entity.MovementKindOUT:
		if previous < quantity {
			return 0, domain.ErrInsufficientBalance
		}
		return previous - quantity, nil
	default:
		return quantity, nil
	}
}

// TotalValue = precio unitario * cantidad; nil cuando no hay precio.
func TotalValue(unitPrice *decimal.Decimal, quantity int64) *decimal.Decimal {
	if unitPrice == nil {
		return nil
	}
	v := unitPrice.Mul(decimal.NewFromInt(quantity))
	return &v
}

// Replay recorre los movimientos de un ítem en orden de creación partiendo de saldo 0
// (todo ítem nace con saldo 0) y devuelve el saldo final.
// Falla si una transición no encadena con la anterior o no corresponde a su tipo.
func Replay(records []*entity.MovementRecord) (int64, error) {
	var balance int64
	for _, r := range records {
		if r.PreviousBalance != balance {
			return balance, fmt.Errorf("movimiento %s: saldo previo %d no coincide con %d", r.ID, r.PreviousBalance, balance)
		}
		next, err := NextBalance(r.PreviousBalance, r.Kind, r.Quantity)
		if err != nil {
			return balance, fmt.Errorf("movimiento %s: %w", r.ID, err)
		}
		if next != r.NewBalance {
			return balance, fmt.Errorf("movimiento %s: saldo nuevo %d, esperado %d", r.ID, r.NewBalance, next)
		}
		balance = next
	}
	return balance, nil
}
