package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// RegisterMovementUseCase adapta requests externos (HTTP, formularios) al procesador
// y aplica la política de reintentos ante conflictos de concurrencia.
type RegisterMovementUseCase struct {
	applier MovementApplier
	retry   RetryPolicy
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(applier MovementApplier, retry RetryPolicy) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{applier: applier, retry: retry}
}

// RegisterMovementFromRequest aplica el movimiento descrito en el request en nombre de actorID.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(ctx context.Context, actorID string, in dto.ApplyMovementRequest) (*dto.MovementResponse, error) {
	input := MovementInput{
		ItemID:    in.ItemID,
		Kind:      entity.MovementKind(in.Kind),
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Reference: in.Reference,
		Notes:     in.Notes,
		ActorID:   actorID,
	}
	record, err := RetryOnConflict(ctx, uc.retry, func() (*entity.MovementRecord, error) {
		return uc.applier.ApplyMovement(ctx, input)
	})
	if err != nil {
		return nil, err
	}
	return &dto.MovementResponse{
		MovementID:      record.ID,
		PreviousBalance: record.PreviousBalance,
		NewBalance:      record.NewBalance,
		TotalValue:      record.TotalValue,
	}, nil
}
