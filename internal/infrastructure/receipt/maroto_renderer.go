// Package receipt renderiza el recibo de venta que imprime el agente.
//
// Layout del tirilla (80mm):
//
//	┌──────────────────────────────┐
//	│        NOMBRE TIENDA         │
//	│        dirección             │
//	│  Factura INV-123  02/01/2006 │
//	│  ──────────────────────────  │
//	│  2 x Camiseta M      $20,10  │
//	│  1 x Camiseta L      $25,00  │
//	│  ──────────────────────────  │
//	│  Subtotal            $45,10  │
//	│  Descuento            $0,00  │
//	│  Impuestos            $8,57  │
//	│  TOTAL               $53,67  │
//	└──────────────────────────────┘
package receipt

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/slipsync/slipsync-api/internal/application/printing"
)

var colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}

// MarotoRenderer implementa el render del recibo usando Maroto v2.
type MarotoRenderer struct {
	printer *message.Printer
}

// NewMarotoRenderer construye el renderer.
func NewMarotoRenderer() *MarotoRenderer {
	return &MarotoRenderer{printer: message.NewPrinter(language.Spanish)}
}

// Render genera el PDF del recibo y devuelve sus bytes.
func (g *MarotoRenderer) Render(p *printing.ReceiptPayload) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(80, 200).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "courier", Size: 8}).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRows(p)...)
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, l := range p.Lines {
		m.AddRows(lineRow(l, g.money(l.TotalPrice, p.Currency)))
	}
	m.AddRows(line.NewRow(2, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(
		totalRow("Subtotal", g.money(p.Subtotal, p.Currency), false),
		totalRow("Descuento", g.money(p.DiscountsTotal.Neg(), p.Currency), false),
		totalRow("Impuestos", g.money(p.TaxesTotal, p.Currency), false),
		totalRow("TOTAL", g.money(p.Total, p.Currency), true),
	)
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("¡Gracias por su compra!", props.Text{Align: align.Center, Top: 3, Color: colorGray}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("recibo: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRows(p *printing.ReceiptPayload) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New(p.StoreName, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center}),
		)),
	}
	if p.StoreAddress != "" {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(p.StoreAddress, props.Text{Size: 7, Align: align.Center, Color: colorGray}),
		)))
	}
	rows = append(rows, row.New(5).Add(
		col.New(7).Add(text.New("Factura "+p.InvoiceNumber, props.Text{Size: 7})),
		col.New(5).Add(text.New(p.IssuedAt.Format("02/01/2006 15:04"), props.Text{Size: 7, Align: align.Right})),
	))
	return rows
}

func lineRow(l printing.ReceiptLine, total string) core.Row {
	return row.New(4).Add(
		col.New(8).Add(text.New(fmt.Sprintf("%d x %s", l.Quantity, l.Name), props.Text{Size: 7})),
		col.New(4).Add(text.New(total, props.Text{Size: 7, Align: align.Right})),
	)
}

func totalRow(label, amount string, bold bool) core.Row {
	style := fontstyle.Normal
	if bold {
		style = fontstyle.Bold
	}
	return row.New(4).Add(
		col.New(7).Add(text.New(label, props.Text{Size: 8, Style: style})),
		col.New(5).Add(text.New(amount, props.Text{Size: 8, Style: style, Align: align.Right})),
	)
}

// money formatea el monto con el símbolo de la moneda del recibo. Si el
// código ISO no se reconoce, cae al monto plano.
func (g *MarotoRenderer) money(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.StringFixed(2)
	}
	f, _ := amount.Float64()
	return g.printer.Sprintf("%v", currency.Symbol(unit.Amount(f)))
}
