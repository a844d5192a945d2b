package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// MovementInput entrada para aplicar un movimiento sobre un ítem.
// Para IN/OUT Quantity es el delta (> 0); para ADJUST es el saldo absoluto destino (>= 0).
type MovementInput struct {
	ItemID    string
	Kind      entity.MovementKind
	Quantity  int64
	UnitPrice *decimal.Decimal
	Reference string
	Notes     string
	ActorID   string
}

// MovementProcessor valida, serializa por ítem y aplica movimientos de forma transaccional:
// saldo del ítem y fila del libro se confirman juntos (Commit) o no queda nada (Rollback).
type MovementProcessor struct {
	txRunner  TxRunner
	locker    *ItemLocker
	evaluator AlertEvaluator
	log       *logger.Logger
	now       func() time.Time
}

var _ MovementApplier = (*MovementProcessor)(nil)

// NewMovementProcessor construye el procesador. evaluator puede ser nil (sin alertas).
func NewMovementProcessor(
	txRunner TxRunner,
	locker *ItemLocker,
	evaluator AlertEvaluator,
	log *logger.Logger,
) *MovementProcessor {
	return &MovementProcessor{
		txRunner:  txRunner,
		locker:    locker,
		evaluator: evaluator,
		log:       log.Component("movement_processor"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// ApplyMovement valida la entrada, bloquea el ítem, lee el saldo confirmado (SELECT FOR UPDATE),
// calcula el nuevo saldo, persiste saldo + movimiento en una sola transacción y, tras el Commit,
// re-evalúa la alerta del ítem. Un fallo de la alerta solo se registra en el log.
func (p *MovementProcessor) ApplyMovement(ctx context.Context, in MovementInput) (*entity.MovementRecord, error) {
	if err := inventory.ValidateQuantity(in.Kind, in.Quantity); err != nil {
		return nil, err
	}
	if in.ItemID == "" || in.ActorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	unlock, err := p.locker.Lock(ctx, in.ItemID)
	if err != nil {
		return nil, err
	}

	// Con el bloqueo tomado el movimiento ya no se cancela a mitad de camino.
	txCtx := context.WithoutCancel(ctx)
	var record *entity.MovementRecord
	err = p.txRunner.Run(txCtx, func(
		items repository.ItemBalanceWriter,
		movements repository.MovementRepository,
	) error {
		item, err := items.GetForUpdate(txCtx, in.ItemID)
		if err != nil {
			return err
		}
		if item == nil || !item.IsActive {
			return domain.ErrItemNotFound
		}
		newBalance, err := inventory.NextBalance(item.Balance, in.Kind, in.Quantity)
		if err != nil {
			return err
		}

		now := p.now()
		rec := &entity.MovementRecord{
			ID:              uuid.New().String(),
			ItemID:          item.ID,
			Kind:            in.Kind,
			Quantity:        in.Quantity,
			UnitPrice:       in.UnitPrice,
			TotalValue:      inventory.TotalValue(in.UnitPrice, in.Quantity),
			PreviousBalance: item.Balance,
			NewBalance:      newBalance,
			Reference:       in.Reference,
			Notes:           in.Notes,
			CreatedBy:       in.ActorID,
			CreatedAt:       now,
		}
		if err := items.UpdateBalance(txCtx, item.ID, newBalance, now); err != nil {
			return err
		}
		if err := movements.Create(txCtx, rec); err != nil {
			return err
		}
		record = rec
		return nil
	})
	unlock()
	if err != nil {
		err = classifyError(err)
		if errors.Is(err, domain.ErrPersistence) {
			p.log.Error().Err(err).Str("item_id", in.ItemID).Str("kind", string(in.Kind)).Msg("movimiento revertido")
		}
		return nil, err
	}

	p.log.Info().
		Str("movement_id", record.ID).
		Str("item_id", record.ItemID).
		Str("kind", string(record.Kind)).
		Int64("previous_balance", record.PreviousBalance).
		Int64("new_balance", record.NewBalance).
		Str("actor", record.CreatedBy).
		Msg("movimiento registrado")

	p.evaluateAlert(txCtx, record.ItemID)
	return record, nil
}

func (p *MovementProcessor) evaluateAlert(ctx context.Context, itemID string) {
	if p.evaluator == nil {
		return
	}
	if _, err := p.evaluator.Evaluate(ctx, itemID); err != nil {
		p.log.Warn().Err(err).Str("item_id", itemID).Msg("evaluación de alerta falló; el barrido periódico la repetirá")
	}
}

// classifyError deja pasar los errores de dominio y envuelve el resto como falla de persistencia.
func classifyError(err error) error {
	for _, known := range []error{
		domain.ErrInvalidQuantity,
		domain.ErrInvalidInput,
		domain.ErrItemNotFound,
		domain.ErrInsufficientBalance,
		domain.ErrConcurrencyConflict,
		domain.ErrPersistence,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrPersistence, err)
}
