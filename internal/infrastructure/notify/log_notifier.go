package notify

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/alerts"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

var _ alerts.Notifier = (*LogNotifier)(nil)

// LogNotifier registra la alerta en el log; se usa cuando no hay SMTP configurado.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("notify")}
}

func (n *LogNotifier) NotifyLowBalance(_ context.Context, alert *entity.LowBalanceAlert, item *entity.Item) error {
	n.log.Warn().
		Str("alert_id", alert.ID).
		Str("item_id", item.ID).
		Str("code", item.Code).
		Int64("balance", alert.BalanceSnapshot).
		Int64("minimum", alert.MinimumSnapshot).
		Msg("saldo bajo")
	return nil
}
