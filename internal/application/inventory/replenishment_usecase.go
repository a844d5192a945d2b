package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: ítems activos en o bajo su mínimo.
type ReplenishmentUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	report        ReplenishmentReportGenerator
}

// NewReplenishmentUseCase construye el caso de uso de reposición. report puede ser nil (sin PDF).
func NewReplenishmentUseCase(analyticsRepo repository.AnalyticsRepository, report ReplenishmentReportGenerator) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{analyticsRepo: analyticsRepo, report: report}
}

// GenerateReplenishmentList devuelve los ítems bajo mínimo con la cantidad sugerida para llegar
// al máximo y su costo estimado, priorizados por déficit relativo al mínimo.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	rawItems, err := uc.analyticsRepo.GetItemsAtOrBelowMinimum(ctx)
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for _, item := range rawItems {
		qty := item.Maximum - item.Balance
		if qty < 0 {
			qty = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:             item.ItemID,
			Code:               item.Code,
			Name:               item.Name,
			Balance:            item.Balance,
			Minimum:            item.Minimum,
			Maximum:            item.Maximum,
			SuggestedOrderQty:  qty,
			UnitPrice:          item.UnitPrice,
			EstimatedOrderCost: item.UnitPrice.Mul(decimal.NewFromInt(qty)),
		})
	}

	// Primero sin stock, luego mayor déficit relativo (balance/minimum más bajo), luego mayor costo.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if (a.Balance == 0) != (b.Balance == 0) {
			return a.Balance == 0
		}
		ra, rb := coverage(a), coverage(b)
		if !ra.Equal(rb) {
			return ra.LessThan(rb)
		}
		return a.EstimatedOrderCost.GreaterThan(b.EstimatedOrderCost)
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

// GenerateReplenishmentPDF la misma lista, en PDF.
func (uc *ReplenishmentUseCase) GenerateReplenishmentPDF(ctx context.Context) ([]byte, error) {
	if uc.report == nil {
		return nil, errors.New("reporte PDF no configurado")
	}
	list, err := uc.GenerateReplenishmentList(ctx)
	if err != nil {
		return nil, err
	}
	return uc.report.GenerateReplenishmentPDF(ctx, list, time.Now().UTC())
}

// coverage = balance / minimum (0 cuando minimum es 0).
func coverage(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if s.Minimum == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.Balance).Div(decimal.NewFromInt(s.Minimum))
}
