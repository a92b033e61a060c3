// Package pdf genera la ficha imprimible de una orden de producción.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo + Código          │  QR del código             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Reparto inicial / actual / creador / scarti / nota   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | De | A | Operador | Operación | Scarti       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/Trazabilidad-api/internal/application/tracking"
	"github.com/jhoicas/Trazabilidad-api/internal/domain/entity"
)

var _ tracking.OrderCardGenerator = (*OrderCardGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorBack    = &props.Color{Red: 160, Green: 40, Blue: 40}
)

// OrderCardGenerator implementa tracking.OrderCardGenerator con Maroto v2.
type OrderCardGenerator struct{}

// NewOrderCardGenerator construye el generador.
func NewOrderCardGenerator() *OrderCardGenerator { return &OrderCardGenerator{} }

// GenerateOrderCard genera la ficha y devuelve los bytes del PDF.
func (g *OrderCardGenerator) GenerateOrderCard(
	_ context.Context,
	order *entity.Order,
	history []*entity.OrderHistory,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Scheda ordine "+order.Code.String(), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(historyHeaderRow())
	m.AddRows(historyRows(history)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar ficha: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: tipo y código (izq), QR con el código (der).
func headerRow(order *entity.Order) core.Row {
	return row.New(32).Add(
		col.New(8).Add(
			text.New(string(order.Code.Kind), props.Text{
				Style: fontstyle.Bold, Size: 10, Color: colorGray, Top: 2,
			}),
			text.New(order.Code.Value, props.Text{
				Style: fontstyle.Bold, Size: 22, Color: colorPrimary, Top: 8,
			}),
			text.New("Creato il "+order.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Color: colorGray, Top: 22,
			}),
		),
		col.New(4).Add(code.NewQr(order.Code.String(), props.Rect{
			Percent: 90,
			Center:  true,
		})),
	)
}

func detailsRow(order *entity.Order) core.Row {
	field := func(label, value string, top float64) []core.Component {
		return []core.Component{
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Top: top}),
			text.New(nonEmpty(value, "-"), props.Text{Size: 8, Top: top, Left: 30}),
		}
	}
	left := append(field("Reparto iniziale:", order.StartingDepartmentName, 1),
		field("Reparto attuale:", order.CurrentDepartmentName, 6)...)
	left = append(left, field("Creato da:", order.CreatorName, 11)...)
	right := append(field("Scarti:", strconv.Itoa(order.Scarti), 1),
		field("Note:", order.Note, 6)...)
	return row.New(18).Add(
		col.New(6).Add(left...),
		col.New(6).Add(right...),
	)
}

func historyHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Data", 2, align.Left),
		h("Da", 2, align.Left),
		h("A", 2, align.Left),
		h("Operatore", 3, align.Left),
		h("Operazione", 2, align.Left),
		h("Scarti", 1, align.Right),
	)
}

// historyRows: una fila por movimiento; las retrocessioni se marcan en rojo.
func historyRows(history []*entity.OrderHistory) []core.Row {
	if len(history) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Nessun movimento registrato", props.Text{
				Size: 8, Align: align.Center, Color: colorGray, Top: 2,
			}),
		))}
	}
	rows := make([]core.Row, 0, len(history))
	for _, h := range history {
		opColor := colorPrimary
		if h.OperationType == entity.OperationRetrocessione {
			opColor = colorBack
		}
		cell := func(s string, size int, a align.Type, c *props.Color) core.Col {
			return col.New(size).Add(text.New(s, props.Text{
				Size: 7.5, Align: a, Top: 1, Left: 1, Right: 1, Color: c,
			}))
		}
		rows = append(rows, row.New(6).Add(
			cell(h.MovedAt.Format("02/01/06 15:04"), 2, align.Left, nil),
			cell(nonEmpty(h.FromDepartmentName, "-"), 2, align.Left, nil),
			cell(nonEmpty(h.ToDepartmentName, "-"), 2, align.Left, nil),
			cell(nonEmpty(h.MovedByName, "-"), 3, align.Left, nil),
			cell(h.OperationType, 2, align.Left, opColor),
			cell(strconv.Itoa(h.Scarti), 1, align.Right, nil),
		))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
