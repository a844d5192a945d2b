package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LedgerUseCase consultas de solo lectura sobre el libro de movimientos.
type LedgerUseCase struct {
	movements repository.MovementRepository
	items     repository.ItemRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(movements repository.MovementRepository, items repository.ItemRepository) *LedgerUseCase {
	return &LedgerUseCase{movements: movements, items: items}
}

// QueryLedger devuelve los movimientos filtrados por ítem, tipo y rango de fechas en orden de creación.
func (uc *LedgerUseCase) QueryLedger(ctx context.Context, q dto.LedgerQuery) (*dto.LedgerResponse, error) {
	kind := entity.MovementKind(q.Kind)
	if q.Kind != "" && !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if q.DateFrom != nil && q.DateTo != nil && q.DateTo.Before(*q.DateFrom) {
		return nil, domain.ErrInvalidInput
	}
	q.Page.DefaultPage()

	list, err := uc.movements.List(ctx, repository.MovementFilter{
		ItemID: q.ItemID,
		Kind:   kind,
		From:   q.DateFrom,
		To:     q.DateTo,
		Limit:  q.Page.Limit,
		Offset: q.Page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementRecordDTO, 0, len(list))
	for _, r := range list {
		items = append(items, toMovementRecordDTO(r))
	}
	return &dto.LedgerResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Page.Limit, Offset: q.Page.Offset},
	}, nil
}

// AuditItem reproduce todo el libro del ítem en orden de sequence y lo compara con el saldo almacenado.
func (uc *LedgerUseCase) AuditItem(ctx context.Context, itemID string) (*dto.AuditResponse, error) {
	item, err := uc.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	records, err := uc.movements.List(ctx, repository.MovementFilter{ItemID: itemID, BySequence: true})
	if err != nil {
		return nil, err
	}
	out := &dto.AuditResponse{
		ItemID:        itemID,
		Movements:     len(records),
		StoredBalance: item.Balance,
	}
	replayed, err := inventory.Replay(records)
	out.ReplayBalance = replayed
	if err != nil {
		out.Inconsistency = err.Error()
		return out, nil
	}
	out.Consistent = replayed == item.Balance
	return out, nil
}

func toMovementRecordDTO(r *entity.MovementRecord) dto.MovementRecordDTO {
	return dto.MovementRecordDTO{
		ID:              r.ID,
		ItemID:          r.ItemID,
		Kind:            string(r.Kind),
		Quantity:        r.Quantity,
		UnitPrice:       r.UnitPrice,
		TotalValue:      r.TotalValue,
		PreviousBalance: r.PreviousBalance,
		NewBalance:      r.NewBalance,
		Reference:       r.Reference,
		Notes:           r.Notes,
		CreatedBy:       r.CreatedBy,
		CreatedAt:       r.CreatedAt,
	}
}
