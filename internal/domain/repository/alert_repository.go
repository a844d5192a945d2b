package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AlertRepository puerto de persistencia de alertas de saldo bajo.
type AlertRepository interface {
	// CreateIfAbsent inserta la alerta solo si el ítem no tiene otra sin resolver.
	// Devuelve false si ya existía (restricción única sobre item_id para alertas abiertas).
	CreateIfAbsent(ctx context.Context, alert *entity.LowBalanceAlert) (bool, error)
	GetByID(ctx context.Context, id string) (*entity.LowBalanceAlert, error)
	GetUnresolvedByItem(ctx context.Context, itemID string) (*entity.LowBalanceAlert, error)
	// Resolve marca la alerta como resuelta si aún no lo está. Devuelve false si no cambió nada.
	Resolve(ctx context.Context, id, actorID string, at time.Time) (bool, error)
	ListUnresolved(ctx context.Context, limit, offset int) ([]*entity.LowBalanceAlert, error)
}
