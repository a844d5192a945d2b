package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ImportReference referencia de los ajustes generados por la importación masiva.
const ImportReference = "IMPORT"

// Valores por defecto de una fila sin mínimo/máximo.
const (
	defaultMinimum int64 = 10
	defaultMaximum int64 = 1000
)

// ImportUseCase importación masiva de ítems. Crea o actualiza el catálogo y, cuando la fila trae
// saldo, lo lleva al valor indicado con un ADJUST a través del procesador: nunca escribe el saldo
// directamente, así cada cambio queda en el libro y dispara la evaluación de alertas.
type ImportUseCase struct {
	items   repository.ItemRepository
	applier MovementApplier
	retry   RetryPolicy
	log     *logger.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(items repository.ItemRepository, applier MovementApplier, retry RetryPolicy, log *logger.Logger) *ImportUseCase {
	return &ImportUseCase{items: items, applier: applier, retry: retry, log: log.Component("import")}
}

// Import procesa las filas en orden. Un error en una fila no detiene las demás;
// se reporta como "Fila N: ..." (N = row.Line o, si falta, la posición contando desde 2:
// la fila 1 es el encabezado del archivo).
func (uc *ImportUseCase) Import(ctx context.Context, actorID string, rows []dto.ImportRowRequest) (*dto.ImportResult, error) {
	if actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	result := &dto.ImportResult{}
	for i, row := range rows {
		rowNum := row.Line
		if rowNum <= 0 {
			rowNum = i + 2
		}
		created, adjusted, err := uc.importRow(ctx, actorID, row)
		var adjErr *adjustError
		switch {
		case errors.As(err, &adjErr) && created:
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: ítem creado con saldo 0, %v", rowNum, adjErr))
		case errors.As(err, &adjErr):
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: ítem actualizado sin cambiar saldo, %v", rowNum, adjErr))
		case err != nil:
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: %v", rowNum, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
		if adjusted {
			result.Adjusted++
		}
	}
	uc.log.Info().
		Int("rows", len(rows)).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("adjusted", result.Adjusted).
		Int("errors", len(result.Errors)).
		Msg("importación completada")
	return result, nil
}

func (uc *ImportUseCase) importRow(ctx context.Context, actorID string, row dto.ImportRowRequest) (created, adjusted bool, err error) {
	code := strings.TrimSpace(row.Code)
	if code == "" || strings.TrimSpace(row.Name) == "" {
		return false, false, domain.ErrInvalidInput
	}
	if row.Balance != nil && *row.Balance < 0 {
		return false, false, domain.ErrInvalidQuantity
	}

	item, err := uc.items.GetByCode(ctx, code)
	if err != nil {
		return false, false, err
	}
	now := time.Now().UTC()
	if item == nil {
		item = &entity.Item{
			ID:        uuid.New().String(),
			Code:      code,
			Minimum:   defaultMinimum,
			Maximum:   defaultMaximum,
			IsActive:  true,
			CreatedAt: now,
		}
		created = true
	}
	item.Name = row.Name
	item.Description = row.Description
	item.CategoryID = row.CategoryID
	item.SupplierID = row.SupplierID
	item.UnitPrice = row.UnitPrice
	if row.Minimum != nil {
		item.Minimum = *row.Minimum
	}
	if row.Maximum != nil {
		item.Maximum = *row.Maximum
	}
	item.UpdatedAt = now
	if !item.ValidBounds() {
		return false, false, fmt.Errorf("%w: mínimo debe ser menor al máximo", domain.ErrInvalidInput)
	}

	if created {
		if err := uc.items.Create(ctx, item); err != nil {
			return false, false, err
		}
	} else if err := uc.items.UpdateDetails(ctx, item); err != nil {
		return false, false, err
	}

	if row.Balance == nil || (!created && *row.Balance == item.Balance) || (created && *row.Balance == 0) {
		return created, false, nil
	}
	_, err = RetryOnConflict(ctx, uc.retry, func() (*entity.MovementRecord, error) {
		return uc.applier.ApplyMovement(ctx, MovementInput{
			ItemID:    item.ID,
			Kind:      entity.MovementKindADJUST,
			Quantity:  *row.Balance,
			Reference: ImportReference,
			Notes:     "importación masiva",
			ActorID:   actorID,
		})
	})
	if err != nil {
		return created, false, &adjustError{err: err}
	}
	return created, true, nil
}

// adjustError el ítem ya quedó persistido pero el ADJUST de saldo falló.
type adjustError struct {
	err error
}

func (e *adjustError) Error() string { return "ajuste de saldo falló: " + e.err.Error() }

func (e *adjustError) Unwrap() error { return e.err }
