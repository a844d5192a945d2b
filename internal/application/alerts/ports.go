package alerts

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Notifier canal externo (correo, etc.) invocado solo cuando se crea una alerta nueva.
type Notifier interface {
	NotifyLowBalance(ctx context.Context, alert *entity.LowBalanceAlert, item *entity.Item) error
}
