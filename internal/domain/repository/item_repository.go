package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ItemFilter filtros para listar ítems. Status usa los valores de entity.BalanceStatus*.
type ItemFilter struct {
	Status     string
	Search     string // coincide por código o nombre
	ActiveOnly bool
	Limit      int
	Offset     int
}

// ItemRepository define el puerto de catálogo para Item (DIP). Ningún método escribe el saldo.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	UpdateDetails(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, filter ItemFilter) ([]*entity.Item, error)
	ListActiveIDs(ctx context.Context) ([]string, error)
}

// ItemBalanceWriter acceso al saldo de un ítem. Solo existe atado a una transacción:
// los adaptadores lo entregan únicamente desde TxRunner.Run.
type ItemBalanceWriter interface {
	// GetForUpdate lee el ítem bloqueando su fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	UpdateBalance(ctx context.Context, id string, balance int64, at time.Time) error
}
