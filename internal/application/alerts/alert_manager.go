package alerts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// AlertManager deriva y administra alertas de saldo bajo: a lo sumo una sin resolver por ítem,
// la recuperación del saldo no la resuelve y la resolución es una acción explícita.
type AlertManager struct {
	items       repository.ItemRepository
	alerts      repository.AlertRepository
	notifier    Notifier
	concurrency int
	log         *logger.Logger
	now         func() time.Time
}

// NewAlertManager construye el administrador. notifier puede ser nil.
// concurrency limita cuántos ítems evalúa en paralelo Sweep.
func NewAlertManager(
	items repository.ItemRepository,
	alerts repository.AlertRepository,
	notifier Notifier,
	concurrency int,
	log *logger.Logger,
) *AlertManager {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AlertManager{
		items:       items,
		alerts:      alerts,
		notifier:    notifier,
		concurrency: concurrency,
		log:         log.Component("alert_manager"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Evaluate crea una alerta si el saldo está en o bajo el mínimo y el ítem no tiene otra abierta.
// Es idempotente: la inserción está protegida por la restricción única de alertas abiertas,
// así dos evaluaciones concurrentes crean como mucho una.
func (m *AlertManager) Evaluate(ctx context.Context, itemID string) (bool, error) {
	item, err := m.items.GetByID(ctx, itemID)
	if err != nil {
		return false, err
	}
	if item == nil {
		return false, domain.ErrItemNotFound
	}
	if !item.IsLowBalance() {
		return false, nil
	}
	alert := &entity.LowBalanceAlert{
		ID:              uuid.New().String(),
		ItemID:          item.ID,
		BalanceSnapshot: item.Balance,
		MinimumSnapshot: item.Minimum,
		CreatedAt:       m.now(),
	}
	created, err := m.alerts.CreateIfAbsent(ctx, alert)
	if err != nil {
		return false, err
	}
	if !created {
		return false, nil
	}
	m.log.Warn().
		Str("alert_id", alert.ID).
		Str("item_id", item.ID).
		Str("code", item.Code).
		Int64("balance", item.Balance).
		Int64("minimum", item.Minimum).
		Msg("alerta de saldo bajo creada")
	if m.notifier != nil {
		if err := m.notifier.NotifyLowBalance(ctx, alert, item); err != nil {
			m.log.Error().Err(err).Str("alert_id", alert.ID).Msg("notificación de alerta falló")
		}
	}
	return true, nil
}

// Resolve marca la alerta como resuelta. Si ya estaba resuelta no cambia nada (conserva resolved_at).
func (m *AlertManager) Resolve(ctx context.Context, alertID, actorID string) (*entity.LowBalanceAlert, error) {
	if alertID == "" || actorID == "" {
		return nil, domain.ErrInvalidInput
	}
	changed, err := m.alerts.Resolve(ctx, alertID, actorID, m.now())
	if err != nil {
		return nil, err
	}
	alert, err := m.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, domain.ErrAlertNotFound
	}
	if changed {
		m.log.Info().Str("alert_id", alertID).Str("actor", actorID).Msg("alerta resuelta")
	}
	return alert, nil
}

// Sweep evalúa cada ítem indicado y devuelve cuántas alertas nuevas se crearon.
// Un fallo en un ítem no detiene el resto; los errores se devuelven combinados.
// Re-ejecutarlo no duplica alertas.
func (m *AlertManager) Sweep(ctx context.Context, itemIDs []string) (int, error) {
	var (
		mu      sync.Mutex
		created int
		errs    []error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for _, id := range itemIDs {
		g.Go(func() error {
			ok, err := m.Evaluate(gctx, id)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, fmt.Errorf("ítem %s: %w", id, err))
				return nil
			}
			if ok {
				created++
			}
			return nil
		})
	}
	_ = g.Wait()

	m.log.Info().Int("evaluated", len(itemIDs)).Int("created", created).Int("errors", len(errs)).Msg("barrido de alertas completado")
	return created, errors.Join(errs...)
}

// SweepActive barre todos los ítems activos (contrato del job periódico).
func (m *AlertManager) SweepActive(ctx context.Context) (*dto.SweepResponse, error) {
	ids, err := m.items.ListActiveIDs(ctx)
	if err != nil {
		return nil, err
	}
	created, err := m.Sweep(ctx, ids)
	out := &dto.SweepResponse{Evaluated: len(ids), Created: created}
	if err != nil {
		out.Errors = splitJoined(err)
	}
	return out, nil
}

// ListUnresolved alertas abiertas, más recientes primero.
func (m *AlertManager) ListUnresolved(ctx context.Context, limit, offset int) ([]dto.AlertResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := m.alerts.ListUnresolved(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		out = append(out, ToAlertResponse(a))
	}
	return out, nil
}

// ToAlertResponse mapea la entidad a la salida HTTP.
func ToAlertResponse(a *entity.LowBalanceAlert) dto.AlertResponse {
	return dto.AlertResponse{
		ID:              a.ID,
		ItemID:          a.ItemID,
		BalanceSnapshot: a.BalanceSnapshot,
		MinimumSnapshot: a.MinimumSnapshot,
		IsResolved:      a.IsResolved,
		CreatedAt:       a.CreatedAt,
		ResolvedAt:      a.ResolvedAt,
		ResolvedBy:      a.ResolvedBy,
	}
}

func splitJoined(err error) []string {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		out := make([]string, 0, len(j.Unwrap()))
		for _, e := range j.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return []string{err.Error()}
}
