package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que saldo del ítem y fila del libro se confirman o revierten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		items repository.ItemBalanceWriter,
		movements repository.MovementRepository,
	) error) error
}

// AlertEvaluator re-evalúa la condición de saldo bajo de un ítem tras un movimiento confirmado.
type AlertEvaluator interface {
	Evaluate(ctx context.Context, itemID string) (bool, error)
}

// MovementApplier punto de entrada único para cambiar saldos (procesador de movimientos).
type MovementApplier interface {
	ApplyMovement(ctx context.Context, in MovementInput) (*entity.MovementRecord, error)
}

// ReplenishmentReportGenerator genera el documento imprimible de la lista de reposición.
type ReplenishmentReportGenerator interface {
	GenerateReplenishmentPDF(ctx context.Context, list []dto.ReplenishmentSuggestionDTO, generatedAt time.Time) ([]byte, error)
}
