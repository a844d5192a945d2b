// Package analytics contiene los casos de uso de lectura para el tablero de inventario.
package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

const maxStatsDays = 366

// DashboardUseCase genera los indicadores del tablero.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
// Nunca modifica ítems ni libro.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{
		analyticsRepo: analyticsRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// GetSummary totales de ítems, saldos bajos, sin stock, valor de inventario y alertas abiertas.
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	s, err := uc.analyticsRepo.GetStockSummary(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardSummaryDTO{
		TotalItems:       s.TotalItems,
		LowBalanceItems:  s.LowBalanceItems,
		OutOfStockItems:  s.OutOfStockItems,
		InventoryValue:   s.InventoryValue,
		UnresolvedAlerts: s.UnresolvedAlerts,
	}, nil
}

// GetMovementStats cantidades movidas por día y tipo en los últimos `days` días (incluye hoy).
// Todos los días del rango aparecen, con ceros si no hubo movimientos.
func (uc *DashboardUseCase) GetMovementStats(ctx context.Context, days int) (*dto.MovementStatsDTO, error) {
	if days <= 0 || days > maxStatsDays {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24*time.Hour - time.Nanosecond)
	start := end.AddDate(0, 0, -days).Add(time.Nanosecond)

	stats, err := uc.analyticsRepo.GetDailyMovementStats(ctx, start, end)
	if err != nil {
		return nil, err
	}

	out := &dto.MovementStatsDTO{
		From: start.Format(time.DateOnly),
		To:   end.Format(time.DateOnly),
		Days: make(map[string]map[string]int64, days),
	}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		out.Days[d.Format(time.DateOnly)] = map[string]int64{"IN": 0, "OUT": 0, "ADJUST": 0}
	}
	for _, s := range stats {
		day, ok := out.Days[s.Day]
		if !ok {
			continue
		}
		day[s.Kind] = s.TotalQuantity
	}
	return out, nil
}

// GetOverview combina resumen y estadísticas con ambas consultas en paralelo.
func (uc *DashboardUseCase) GetOverview(ctx context.Context, days int) (*dto.DashboardSummaryDTO, *dto.MovementStatsDTO, error) {
	var (
		summary *dto.DashboardSummaryDTO
		stats   *dto.MovementStatsDTO
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = uc.GetSummary(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = uc.GetMovementStats(gctx, days)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return summary, stats, nil
}
