package bootstrap

import (
	"github.com/jhoicas/stock-ledger/internal/application/alerts"
	appanalytics "github.com/jhoicas/stock-ledger/internal/application/analytics"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/notify"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Services casos de uso cableados sobre un Storage.
type Services struct {
	Items         *usecase.ItemUseCase
	Processor     *inventory.MovementProcessor
	Register      *inventory.RegisterMovementUseCase
	Ledger        *inventory.LedgerUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Import        *inventory.ImportUseCase
	Alerts        *alerts.AlertManager
	Dashboard     *appanalytics.DashboardUseCase
}

// NewServices construye los casos de uso. El AlertManager se inyecta en el procesador
// como evaluador post-commit.
func NewServices(st *Storage, cfg config.LedgerConfig, notifier alerts.Notifier, log *logger.Logger) *Services {
	alertManager := alerts.NewAlertManager(st.Items, st.Alerts, notifier, cfg.SweepConcurrency, log)
	processor := inventory.NewMovementProcessor(
		st.TxRunner,
		inventory.NewItemLocker(cfg.LockTimeout),
		alertManager,
		log,
	)
	retry := inventory.RetryPolicy{Attempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}

	return &Services{
		Items:         usecase.NewItemUseCase(st.Items),
		Processor:     processor,
		Register:      inventory.NewRegisterMovementUseCase(processor, retry),
		Ledger:        inventory.NewLedgerUseCase(st.Movements, st.Items),
		Replenishment: inventory.NewReplenishmentUseCase(st.Analytics, pdf.NewReplenishmentReport("stock-ledger")),
		Import:        inventory.NewImportUseCase(st.Items, processor, retry, log),
		Alerts:        alertManager,
		Dashboard:     appanalytics.NewDashboardUseCase(st.Analytics),
	}
}

// NewNotifier correo si SMTP está configurado; si no, solo log.
func NewNotifier(cfg config.SMTPConfig, log *logger.Logger) alerts.Notifier {
	if cfg.Enabled() {
		log.Info().Str("to", cfg.AlertEmail).Msg("alertas por correo habilitadas")
		return notify.NewEmailNotifier(cfg)
	}
	return notify.NewLogNotifier(log)
}
