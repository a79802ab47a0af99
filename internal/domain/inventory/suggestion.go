package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cmv-api/internal/domain"
)

// SuggestionLine sugerencia de compra de un producto.
//
//	Consumo   = TasaDiaria * Horizonte
//	Sugerido  = max(0, Consumo - StockActual)
//	CostoEst. = Sugerido * CostoÚltimaCompra
type SuggestionLine struct {
	ProductID           int64
	ProductName         string
	Unit                string
	CurrentStock        decimal.Decimal
	RawDailyRate        decimal.Decimal // tasa con signo, tal como sale del estimador
	DailyRate           decimal.Decimal // tasa usada para sugerir (negativa recortada a 0)
	Consumption         decimal.Decimal
	SuggestedQty        decimal.Decimal
	EstimatedUnitCost   decimal.Decimal
	EstimatedCost       decimal.Decimal
	InsufficientHistory bool // no hay inventario anterior
	Anomalous           bool // consumo negativo entre los dos inventarios
	NoCostHistory       bool // sin compras a la fecha del inventario
}

// SuggestionReport lista de compras sugerida a partir de un inventario.
type SuggestionReport struct {
	InventoryID         int64
	InventoryDate       time.Time
	PreviousInventoryID int64 // 0 si no hay inventario anterior
	HorizonDays         int
	TotalEstimatedCost  decimal.Decimal
	Lines               []SuggestionLine
}

// SuggestPurchases proyecta la cantidad a reponer por producto para cubrir horizonDays
// días, usando el inventario indicado como referencia actual y el inmediatamente anterior
// para estimar el consumo diario. Falla con ErrNotFound si el inventario no existe y con
// ErrInvalidRange si el horizonte es menor a un día. La falta de historial no es error.
func (e *Engine) SuggestPurchases(inventoryID int64, horizonDays int) (*SuggestionReport, error) {
	if horizonDays < 1 {
		return nil, fmt.Errorf("%w: horizon_days debe ser >= 1", domain.ErrInvalidRange)
	}
	current, ok := e.index.ByID(inventoryID)
	if !ok {
		return nil, fmt.Errorf("%w: inventario %d", domain.ErrNotFound, inventoryID)
	}
	currentCounts := quantities(current)

	ids := make(productSet)
	for id := range currentCounts {
		ids.add(id)
	}

	var w *window
	previous, hasHistory := e.index.Previous(inventoryID)
	if hasHistory {
		var err error
		if w, err = e.window(previous, current); err != nil {
			return nil, err
		}
		for id := range w.from {
			ids.add(id)
		}
		for id := range w.purchased {
			ids.add(id)
		}
	}

	horizon := decimal.NewFromInt(int64(horizonDays))
	report := &SuggestionReport{
		InventoryID:        current.ID,
		InventoryDate:      Day(current.Date),
		HorizonDays:        horizonDays,
		TotalEstimatedCost: decimal.Zero,
		Lines:              make([]SuggestionLine, 0, len(ids)),
	}
	if hasHistory {
		report.PreviousInventoryID = previous.ID
	}

	for id := range ids {
		product, err := e.product(id)
		if err != nil {
			return nil, err
		}
		line := SuggestionLine{
			ProductID:    id,
			ProductName:  product.Name,
			Unit:         product.Unit,
			CurrentStock: currentCounts[id],
			RawDailyRate: decimal.Zero,
			DailyRate:    decimal.Zero,
		}
		if hasHistory {
			c := w.consumption(id)
			line.RawDailyRate = c.DailyRate
			line.Anomalous = c.Anomalous
			if c.DailyRate.IsPositive() {
				line.DailyRate = c.DailyRate
			}
		} else {
			line.InsufficientHistory = true
		}

		line.Consumption = line.DailyRate.Mul(horizon)
		line.SuggestedQty = decimal.Max(decimal.Zero, line.Consumption.Sub(line.CurrentStock))

		if cost, ok := e.ledger.LastUnitCost(id, current.Date); ok {
			line.EstimatedUnitCost = cost
		} else {
			line.EstimatedUnitCost = decimal.Zero
			line.NoCostHistory = true
		}
		line.EstimatedCost = line.SuggestedQty.Mul(line.EstimatedUnitCost)
		report.Lines = append(report.Lines, line)
	}

	sortByName(e.locale, report.Lines, func(l SuggestionLine) (string, int64) { return l.ProductName, l.ProductID })
	for _, l := range report.Lines {
		report.TotalEstimatedCost = report.TotalEstimatedCost.Add(l.EstimatedCost)
	}
	return report, nil
}
