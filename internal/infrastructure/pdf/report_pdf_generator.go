// Package pdf genera la versión imprimible de los reportes de CMV y de la lista
// de compras sugerida.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del reporte  │  Período / Inventario         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: una fila por producto (orden alfabético)            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + leyenda de advertencias (*, †, ‡)                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cmv-api/internal/application/dto"
	"github.com/jhoicas/cmv-api/internal/application/report"
)

var _ report.ReportPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWarn    = &props.Color{Red: 170, Green: 60, Blue: 0}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa report.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	author string
}

// NewMarotoPDFGenerator construye el generador. author aparece en los metadatos del PDF.
func NewMarotoPDFGenerator(author string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{author: author}
}

// column describe una columna de la tabla: etiqueta, ancho en la grilla de 12 y alineación.
type column struct {
	label string
	size  int
	align align.Type
}

var cmvColumns = []column{
	{"Producto", 3, align.Left},
	{"Inicial", 1, align.Right},
	{"Compras", 1, align.Right},
	{"Final", 1, align.Right},
	{"Consumo", 1, align.Right},
	{"Costo unit.", 2, align.Right},
	{"CMV", 3, align.Right},
}

var suggestionColumns = []column{
	{"Producto", 3, align.Left},
	{"Stock", 1, align.Right},
	{"Cons./día", 2, align.Right},
	{"Sugerido", 2, align.Right},
	{"Costo unit.", 2, align.Right},
	{"Costo est.", 2, align.Right},
}

// GenerateCMVReportPDF genera el PDF del reporte de CMV.
func (g *MarotoPDFGenerator) GenerateCMVReportPDF(_ context.Context, r *dto.CMVReportDTO) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: reporte CMV vacío")
	}
	m := g.newDocument("Reporte de CMV", orientation.Horizontal)

	m.AddRows(headerRow("CUSTO DA MERCADORIA VENDIDA (CMV)",
		fmt.Sprintf("Período: %s a %s", r.Period.StartDate, r.Period.EndDate)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if r.MissingInitialBaseline || r.MissingFinalBaseline {
		m.AddRows(noticeRow(baselineNotice(r)))
	}

	m.AddRows(tableHeaderRow(cmvColumns))
	for _, p := range r.Products {
		m.AddRows(tableRow(cmvColumns,
			p.ProductName+cmvMarks(p),
			formatQty(p.InitialStock),
			formatQty(p.PurchasesQuantity),
			formatQty(p.FinalStock),
			formatQty(p.ConsumedQuantity),
			formatMoney(p.UnitCost),
			formatMoney(p.CMV),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow("CMV TOTAL", r.TotalCMV))
	m.AddRows(legendRow("* consumo negativo (revisar conteos)   † costo de la última compra anterior   ‡ sin costo de referencia"))

	return generate(m)
}

// GeneratePurchaseSuggestionPDF genera el PDF de la lista de compras sugerida.
func (g *MarotoPDFGenerator) GeneratePurchaseSuggestionPDF(_ context.Context, r *dto.PurchaseSuggestionDTO) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("pdf: lista de compras vacía")
	}
	m := g.newDocument("Lista de compras", orientation.Vertical)

	subtitle := fmt.Sprintf("Inventario #%d (%s)   |   Horizonte: %d días", r.InventoryID, r.InventoryDate, r.HorizonDays)
	m.AddRows(headerRow("LISTA DE COMPRAS SUGERIDA", subtitle))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	if r.PreviousInventoryID == nil {
		m.AddRows(noticeRow("Sin inventario anterior: no hay historial para estimar el consumo."))
	}

	m.AddRows(tableHeaderRow(suggestionColumns))
	for _, it := range r.Items {
		m.AddRows(tableRow(suggestionColumns,
			it.ProductName+suggestionMarks(it),
			formatQty(it.CurrentStock),
			formatQty(it.DailyConsumption),
			formatQty(it.SuggestedQuantity),
			formatMoney(it.EstimatedUnitCost),
			formatMoney(it.EstimatedCost),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow("COSTO ESTIMADO TOTAL", r.TotalEstimatedCost))
	m.AddRows(legendRow("* consumo negativo, tasa llevada a cero   † sin historial suficiente   ‡ sin compras previas para costear"))

	return generate(m)
}

func (g *MarotoPDFGenerator) newDocument(title string, o orientation.Type) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(o).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(g.author, "cmv-api"), true).
		Build()
	return maroto.New(cfg)
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title, subtitle string) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(subtitle, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
	)
}

func noticeRow(msg string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(msg, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorWarn, Top: 1.5}),
	))
}

func tableHeaderRow(cols []column) core.Row {
	cells := make([]core.Col, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cells...)
}

func tableRow(cols []column, values ...string) core.Row {
	cells := make([]core.Col, 0, len(cols))
	for i, c := range cols {
		cells = append(cells, col.New(c.size).Add(text.New(values[i], props.Text{
			Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(6).Add(cells...)
}

func totalRow(label string, total decimal.Decimal) core.Row {
	return row.New(9).Add(
		col.New(8).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Color: colorPrimary,
		})),
		col.New(4).Add(text.New(formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2, Right: 1,
		})),
	)
}

func legendRow(msg string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(msg, props.Text{Size: 6.5, Color: colorGray, Top: 3}),
	))
}

func baselineNotice(r *dto.CMVReportDTO) string {
	var missing []string
	if r.MissingInitialBaseline {
		missing = append(missing, "inicial")
	}
	if r.MissingFinalBaseline {
		missing = append(missing, "final")
	}
	return fmt.Sprintf("Sin inventario %s en el período: el stock se asume en cero.", strings.Join(missing, " ni "))
}

func cmvMarks(p dto.CMVProductDTO) string {
	var b strings.Builder
	if p.Anomalous {
		b.WriteString(" *")
	}
	if p.CostEstimated {
		b.WriteString(" †")
	}
	if p.NoCostBasis {
		b.WriteString(" ‡")
	}
	return b.String()
}

func suggestionMarks(it dto.PurchaseSuggestionItemDTO) string {
	var b strings.Builder
	if it.Anomalous {
		b.WriteString(" *")
	}
	if it.InsufficientHistory {
		b.WriteString(" †")
	}
	if it.NoCostHistory {
		b.WriteString(" ‡")
	}
	return b.String()
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatMoney(d decimal.Decimal) string { return formatDecimal(d, 2) }

func formatQty(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return formatDecimal(d, 0)
	}
	return formatDecimal(d, 3)
}

// formatDecimal formatea con separador de miles "." y decimal ",".
// Ej: 1234567.891 con 2 decimales → "1.234.567,89"
func formatDecimal(d decimal.Decimal, places int32) string {
	s := d.Abs().StringFixed(places)
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3+len(frac)+2)
	if d.Round(places).IsNegative() {
		buf = append(buf, '-')
	}
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if frac != "" {
		buf = append(buf, ',')
		buf = append(buf, frac...)
	}
	return string(buf)
}
