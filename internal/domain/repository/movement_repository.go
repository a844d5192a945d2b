package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros de consulta del libro. Campos vacíos/nil no filtran.
type MovementFilter struct {
	ItemID string
	Kind   entity.MovementKind
	From   *time.Time
	To     *time.Time
	Limit  int // 0 = sin límite
	Offset int
	// BySequence ordena solo por sequence, que sigue el orden de confirmación de cada ítem
	// aunque los relojes de distintas instancias difieran.
	BySequence bool
}

// MovementRepository puerto del libro de movimientos: solo inserción y lectura.
type MovementRepository interface {
	Create(ctx context.Context, record *entity.MovementRecord) error
	GetByID(ctx context.Context, id string) (*entity.MovementRecord, error)
	// List devuelve los movimientos en orden de creación ascendente (o por sequence si BySequence).
	List(ctx context.Context, filter MovementFilter) ([]*entity.MovementRecord, error)
}
