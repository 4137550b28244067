// Package pdf genera el documento imprimible de órdenes de proveedor y traslados.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Proveedor + código   │  N° Orden + Estado + Fecha   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LOGÍSTICA: Origen / Destino / Creada por / Recibida por     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Producto | Pedido | Recibido | P.Unit | Total  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL                       │
//	│  FOOTER: QR con el id de la orden                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	appsupplier "github.com/jhoicas/Proveedores-api/internal/application/supplier"
	"github.com/jhoicas/Proveedores-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ appsupplier.OrderPDFGenerator = (*MarotoOrderPDFGenerator)(nil)

// MarotoOrderPDFGenerator implementa OrderPDFGenerator usando Maroto v2.
type MarotoOrderPDFGenerator struct {
	printer *message.Printer
}

// NewMarotoOrderPDFGenerator construye el generador; los montos se formatean con las convenciones de lang.
func NewMarotoOrderPDFGenerator(lang language.Tag) *MarotoOrderPDFGenerator {
	return &MarotoOrderPDFGenerator{printer: message.NewPrinter(lang)}
}

// GenerateOrderPDF genera el PDF y devuelve sus bytes.
func (g *MarotoOrderPDFGenerator) GenerateOrderPDF(_ context.Context, doc appsupplier.OrderDocument) ([]byte, error) {
	if doc.Order == nil || doc.Supplier == nil {
		return nil, fmt.Errorf("pdf: documento incompleto")
	}
	title := "Orden de compra"
	if doc.Order.Type == entity.OrderTypeTransfer {
		title = "Orden de traslado"
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title+" "+doc.Order.DisplayID, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(g.headerRow(title, doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(logisticsRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow())
	m.AddRows(g.lineRows(doc.Order.Lines)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(doc.Order))
	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(doc.Order))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

func (g *MarotoOrderPDFGenerator) headerRow(title string, doc appsupplier.OrderDocument) core.Row {
	o := doc.Order
	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Supplier.Name, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1}),
			text.New("Código: "+doc.Supplier.Code, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New(o.DisplayID, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6}),
			text.New(fmt.Sprintf("Estado: %s   |   Fecha: %s", o.Status, o.CreatedAt.Format("02/01/2006")),
				props.Text{Size: 8, Align: align.Right, Top: 13, Color: colorGray}),
		),
	)
}

func logisticsRow(doc appsupplier.OrderDocument) core.Row {
	o := doc.Order
	return row.New(14).Add(
		col.New(6).Add(
			text.New("ORIGEN / DESTINO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s  →  %s", nonEmpty(o.SourceLocationName, "Proveedor"), nonEmpty(o.DestinationLocationName, "-")),
				props.Text{Size: 8, Top: 7}),
		),
		col.New(6).Add(
			text.New("RESPONSABLES", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("Creada por: %s   |   Recibida por: %s", nonEmpty(doc.CreatedByName, "-"), nonEmpty(doc.ReceivedName, "-")),
				props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Pedido", 1, align.Center),
		h("Recibido", 1, align.Center),
		h("P. Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func (g *MarotoOrderPDFGenerator) lineRows(lines []*entity.OrderLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(nonEmpty(l.SKU, "-"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(l.Title, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(g.quantity(l.QuantityOrdered), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(g.quantity(l.QuantityReceived), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.money(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.money(l.TotalPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func (g *MarotoOrderPDFGenerator) totalsRow(o *entity.Order) core.Row {
	label := func(s string, size float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: size, Align: align.Right, Right: 2})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(label("Subtotal:", 9), label("Impuestos:", 9), label("TOTAL "+o.Currency+":", 10)),
		col.New(3).Add(
			text.New(g.money(o.Subtotal), props.Text{Size: 9, Align: align.Right, Right: 1}),
			text.New(g.money(o.TaxTotal), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 5}),
			text.New(g.money(o.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Top: 10, Color: colorPrimary}),
		),
	)
}

func footerRow(o *entity.Order) core.Row {
	return row.New(30).Add(
		col.New(3).Add(code.NewQr(o.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Documento interno de abastecimiento. No constituye factura.", props.Text{Size: 8, Top: 6, Left: 3, Color: colorGray}),
		),
	)
}

func (g *MarotoOrderPDFGenerator) money(d decimal.Decimal) string {
	return g.printer.Sprintf("$%.2f", d.InexactFloat64())
}

func (g *MarotoOrderPDFGenerator) quantity(d decimal.Decimal) string {
	if d.IsInteger() {
		return g.printer.Sprintf("%d", d.IntPart())
	}
	return g.printer.Sprintf("%.2f", d.InexactFloat64())
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
