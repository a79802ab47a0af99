package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cmv-api/internal/domain"
)

// CMVLine conciliación de un producto en el período.
//
//	Consumido = StockInicial + Comprado - StockFinal
//	CMV       = Consumido * CostoUnitario
//
// Los valores se reportan con signo; las banderas son solo advertencias.
type CMVLine struct {
	ProductID     int64
	ProductName   string
	Unit          string
	InitialStock  decimal.Decimal
	PurchasedQty  decimal.Decimal
	PurchasedCost decimal.Decimal
	FinalStock    decimal.Decimal
	ConsumedQty   decimal.Decimal
	UnitCost      decimal.Decimal
	CMV           decimal.Decimal
	Anomalous     bool // consumo negativo: inventario sobrecontado o compra no registrada
	CostEstimated bool // costo tomado de la última compra anterior (sin compras en el período)
	NoCostBasis   bool // sin ninguna compra de referencia; costo 0
}

// CMVReport resultado del cálculo de CMV para un período.
type CMVReport struct {
	StartDate              time.Time
	EndDate                time.Time
	TotalCMV               decimal.Decimal
	Lines                  []CMVLine
	MissingInitialBaseline bool // no hay inventario con fecha <= StartDate
	MissingFinalBaseline   bool // no hay inventario con fecha <= EndDate
}

// AnomalousCount cantidad de líneas con consumo negativo.
func (r *CMVReport) AnomalousCount() int {
	n := 0
	for _, l := range r.Lines {
		if l.Anomalous {
			n++
		}
	}
	return n
}

// ComputeCMV calcula el costo de la mercadería vendida entre start y end (inclusivo).
// Incluye todo producto presente en el inventario vigente al inicio, en el vigente al
// final o en las compras del período. Falla con ErrInvalidRange si start > end.
func (e *Engine) ComputeCMV(start, end time.Time) (*CMVReport, error) {
	from, to := Day(start), Day(end)
	if from.After(to) {
		return nil, fmt.Errorf("%w: start_date %s posterior a end_date %s",
			domain.ErrInvalidRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}

	purchased := e.ledger.PurchasedBetween(from, to)

	ids := make(productSet)
	startPos, endPos := e.index.latestAt(from), e.index.latestAt(to)
	if startPos >= 0 {
		for id := range e.index.counts[startPos] {
			ids.add(id)
		}
	}
	if endPos >= 0 {
		for id := range e.index.counts[endPos] {
			ids.add(id)
		}
	}
	for id := range purchased {
		ids.add(id)
	}

	report := &CMVReport{
		StartDate:              from,
		EndDate:                to,
		TotalCMV:               decimal.Zero,
		Lines:                  make([]CMVLine, 0, len(ids)),
		MissingInitialBaseline: startPos < 0,
		MissingFinalBaseline:   endPos < 0,
	}

	for id := range ids {
		product, err := e.product(id)
		if err != nil {
			return nil, err
		}
		initial, _ := e.index.StockAt(id, from)
		final, _ := e.index.StockAt(id, to)
		totals := purchased[id]

		line := CMVLine{
			ProductID:     id,
			ProductName:   product.Name,
			Unit:          product.Unit,
			InitialStock:  initial,
			PurchasedQty:  totals.Quantity,
			PurchasedCost: totals.Cost,
			FinalStock:    final,
			ConsumedQty:   initial.Add(totals.Quantity).Sub(final),
		}
		line.Anomalous = line.ConsumedQty.IsNegative()

		if cost, ok := WeightedAverageCost(totals); ok {
			line.UnitCost = cost
		} else if cost, ok := e.ledger.LastUnitCost(id, to); ok {
			line.UnitCost = cost
			line.CostEstimated = true
		} else {
			line.UnitCost = decimal.Zero
			line.NoCostBasis = true
		}

		line.CMV = line.ConsumedQty.Mul(line.UnitCost)
		report.Lines = append(report.Lines, line)
	}

	sortByName(e.locale, report.Lines, func(l CMVLine) (string, int64) { return l.ProductName, l.ProductID })
	for _, l := range report.Lines {
		report.TotalCMV = report.TotalCMV.Add(l.CMV)
	}
	return report, nil
}
