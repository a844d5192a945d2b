// Package pdf genera el reporte imprimible de la lista de reposición.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fecha de generación                        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Prio | Código | Nombre | Saldo | Mín | Máx | Pedir   │
//	│         | Precio | Costo estimado                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Ítems / Unidades a pedir / Costo total             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 20, Blue: 20}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.ReplenishmentReportGenerator = (*ReplenishmentReport)(nil)

// ReplenishmentReport implementa inventory.ReplenishmentReportGenerator con Maroto v2.
type ReplenishmentReport struct {
	title string
}

// NewReplenishmentReport construye el generador. title encabeza el documento (ej. nombre de la app).
func NewReplenishmentReport(title string) *ReplenishmentReport {
	return &ReplenishmentReport{title: title}
}

// GenerateReplenishmentPDF arma el PDF con las sugerencias en el orden recibido.
func (g *ReplenishmentReport) GenerateReplenishmentPDF(
	_ context.Context,
	list []dto.ReplenishmentSuggestionDTO,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Lista de reposición", true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, generatedAt, len(list)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(list)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(list))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time, count int) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("LISTA DE REPOSICIÓN", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(fmt.Sprintf("%d ítems en o bajo el mínimo", count), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
			text.New("Generado: "+at.UTC().Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Prio", 1, align.Center),
		h("Código", 2, align.Left),
		h("Nombre", 3, align.Left),
		h("Saldo", 1, align.Right),
		h("Mín/Máx", 1, align.Center),
		h("Pedir", 1, align.Right),
		h("Precio", 1, align.Right),
		h("Costo est.", 2, align.Right),
	)
}

// tableDetailRows una fila por sugerencia; los ítems sin stock se resaltan.
func tableDetailRows(list []dto.ReplenishmentSuggestionDTO) []core.Row {
	result := make([]core.Row, 0, len(list))
	for _, s := range list {
		style := props.Text{Size: 8, Top: 1, Left: 1, Right: 1}
		if s.Balance == 0 {
			style.Color = colorDanger
			style.Style = fontstyle.Bold
		}
		cell := func(v string, size int, a align.Type) core.Col {
			p := style
			p.Align = a
			return col.New(size).Add(text.New(v, p))
		}
		result = append(result, row.New(7).Add(
			cell(strconv.Itoa(s.Priority), 1, align.Center),
			cell(s.Code, 2, align.Left),
			cell(s.Name, 3, align.Left),
			cell(strconv.FormatInt(s.Balance, 10), 1, align.Right),
			cell(fmt.Sprintf("%d/%d", s.Minimum, s.Maximum), 1, align.Center),
			cell(strconv.FormatInt(s.SuggestedOrderQty, 10), 1, align.Right),
			cell("$"+formatMoney(s.UnitPrice), 1, align.Right),
			cell("$"+formatMoney(s.EstimatedOrderCost), 2, align.Right),
		))
	}
	return result
}

func totalsRow(list []dto.ReplenishmentSuggestionDTO) core.Row {
	var units int64
	cost := decimal.Zero
	for _, s := range list {
		units += s.SuggestedOrderQty
		cost = cost.Add(s.EstimatedOrderCost)
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Ítems:"),
			label("Unidades a pedir:"),
			label("COSTO TOTAL:"),
		),
		col.New(3).Add(
			value(strconv.Itoa(len(list))),
			value(formatMoney(decimal.NewFromInt(units))),
			text.New("$"+formatMoney(cost), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney redondea a entero e inserta puntos de miles.
// Ej: 25000 → "25.000", 1000000.4 → "1.000.000"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
