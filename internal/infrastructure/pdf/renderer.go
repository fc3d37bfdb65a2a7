// Package pdf genera los documentos imprimibles con Maroto v2.
//
// Comprobante de venta (A5):
//
//	┌────────────────────────────────────────────┐
//	│  Empresa               │  N° Pedido + Fecha │
//	│  Cliente                                    │
//	│  Cant | Producto | P.Unit | Subtotal        │
//	│                               TOTAL         │
//	│  QR (número de pedido)                      │
//	└────────────────────────────────────────────┘
//
// Reporte de inventario (A4): una fila por producto con su valor y estado.
package pdf

import (
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
	"golang.org/x/text/number"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

var _ ports.ReportRenderer = (*Renderer)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// Renderer implementa ports.ReportRenderer.
type Renderer struct {
	printer *message.Printer
}

// NewRenderer tag define el separador de miles y decimales de los montos.
func NewRenderer(tag language.Tag) *Renderer {
	return &Renderer{printer: message.NewPrinter(tag)}
}

// RenderReceipt comprobante de una venta.
func (r *Renderer) RenderReceipt(sale dto.SaleResponse, settings dto.SettingsDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante "+sale.OrderNumber, true).
		WithAuthor(settings.CompanyName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(receiptHeaderRow(sale, settings))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(text.NewRow(8, "Cliente: "+sale.Customer, props.Text{Size: 9, Top: 2}))

	m.AddRows(tableHeader([]column{
		{"Cant.", 2, align.Center},
		{"Producto", 5, align.Left},
		{"P.Unit", 2, align.Right},
		{"Subtotal", 3, align.Right},
	}))
	for _, it := range sale.Items {
		m.AddRows(row.New(6).Add(
			cell(fmt.Sprintf("%d", it.Quantity), 2, align.Center),
			cell(it.ProductName, 5, align.Left),
			cell(r.money(settings.Currency, it.Price), 2, align.Right),
			cell(r.money(settings.Currency, it.LineTotal), 3, align.Right),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(9).Add(
		col.New(7),
		col.New(2).Add(text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Color: colorPrimary})),
		col.New(3).Add(text.New(r.money(settings.Currency, sale.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Color: colorPrimary})),
	))
	m.AddRows(row.New(30).Add(
		col.New(4).Add(code.NewQr(sale.OrderNumber, props.Rect{Percent: 90, Center: true})),
		col.New(8).Add(text.New("Gracias por su compra.", props.Text{Size: 8, Top: 12, Left: 3, Color: colorGray})),
	))

	return generate(m)
}

// RenderInventory reporte de inventario valorizado.
func (r *Renderer) RenderInventory(report dto.InventoryReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Reporte de inventario", true).
		WithAuthor(report.CompanyName, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(row.New(16).Add(
		col.New(7).Add(text.New(report.CompanyName, props.Text{Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1})),
		col.New(5).Add(
			text.New("REPORTE DE INVENTARIO", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeader([]column{
		{"SKU", 2, align.Left},
		{"Producto", 3, align.Left},
		{"Categoría", 2, align.Left},
		{"Stock", 1, align.Center},
		{"Costo", 1, align.Right},
		{"Valor", 2, align.Right},
		{"Estado", 1, align.Center},
	}))
	for _, it := range report.Rows {
		status := text.New(statusLabel(it.Status), props.Text{Size: 8, Align: align.Center, Top: 1})
		if stock.Status(it.Status).NeedsAttention() {
			status = text.New(statusLabel(it.Status), props.Text{Size: 8, Align: align.Center, Top: 1, Style: fontstyle.Bold, Color: colorAlert})
		}
		m.AddRows(row.New(6).Add(
			cell(it.SKU, 2, align.Left),
			cell(it.Name, 3, align.Left),
			cell(nonEmpty(it.Category, "—"), 2, align.Left),
			cell(fmt.Sprintf("%d", it.Stock), 1, align.Center),
			cell(r.money(report.Currency, it.Cost), 1, align.Right),
			cell(r.money(report.Currency, it.Value), 2, align.Right),
			col.New(1).Add(status),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(
		col.New(5),
		col.New(2).Add(text.New("Unidades:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1})),
		col.New(1).Add(text.New(fmt.Sprintf("%d", report.TotalUnits), props.Text{Size: 9, Align: align.Center, Top: 1})),
		col.New(1).Add(text.New("Valor:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1})),
		col.New(3).Add(text.New(r.money(report.Currency, report.TotalValue), props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1, Color: colorPrimary})),
	))

	return generate(m)
}

// ── helpers ───────────────────────────────────────────────────────────────────

type column struct {
	label string
	size  int
	align align.Type
}

func tableHeader(cols []column) core.Row {
	out := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		out = append(out, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 2,
		})))
	}
	return row.New(8).Add(out...)
}

func cell(s string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1}))
}

func receiptHeaderRow(sale dto.SaleResponse, settings dto.SettingsDTO) core.Row {
	return row.New(16).Add(
		col.New(7).Add(text.New(settings.CompanyName, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1})),
		col.New(5).Add(
			text.New(sale.OrderNumber, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1}),
			text.New("Fecha: "+sale.Date.Format("02/01/2006 15:04"), props.Text{Size: 8, Align: align.Right, Top: 8, Color: colorGray}),
		),
	)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// money símbolo + monto con 2 decimales y separador de miles según el idioma.
func (r *Renderer) money(currency string, v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return currency + r.printer.Sprint(number.Decimal(f, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func statusLabel(s string) string {
	switch stock.Status(s) {
	case stock.StatusCritical:
		return "Crítico"
	case stock.StatusLow:
		return "Bajo"
	default:
		return "OK"
	}
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
