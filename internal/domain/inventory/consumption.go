package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
)

// Consumption consumo de un producto entre dos inventarios.
type Consumption struct {
	ProductID    int64
	InitialStock decimal.Decimal
	PurchasedQty decimal.Decimal
	FinalStock   decimal.Decimal
	ConsumedQty  decimal.Decimal // con signo, sin recorte
	ElapsedDays  int
	DailyRate    decimal.Decimal // ConsumedQty / ElapsedDays, con signo
	Anomalous    bool
}

// window par de inventarios validado con las compras del rango ya agregadas.
type window struct {
	from, to  map[int64]decimal.Decimal
	days      int
	purchased map[int64]PurchaseTotals
}

// DailyConsumption deriva el consumo diario del producto entre los inventarios from y to,
// sumando las compras con fecha en [from.Date, to.Date]. Requiere al menos un día
// entre ambos inventarios; en caso contrario falla con ErrInvalidRange.
func (e *Engine) DailyConsumption(productID int64, from, to *entity.InventorySnapshot) (Consumption, error) {
	w, err := e.window(from, to)
	if err != nil {
		return Consumption{}, err
	}
	return w.consumption(productID), nil
}

func (e *Engine) window(from, to *entity.InventorySnapshot) (*window, error) {
	if from == nil || to == nil {
		return nil, fmt.Errorf("%w: inventarios requeridos", domain.ErrInvalidRange)
	}
	fromDay, toDay := Day(from.Date), Day(to.Date)
	if !fromDay.Before(toDay) {
		return nil, fmt.Errorf("%w: el inventario %d (%s) debe ser anterior al %d (%s)",
			domain.ErrInvalidRange, from.ID, fromDay.Format(time.DateOnly), to.ID, toDay.Format(time.DateOnly))
	}
	return &window{
		from:      quantities(from),
		to:        quantities(to),
		days:      int(toDay.Sub(fromDay).Hours() / 24),
		purchased: e.ledger.PurchasedBetween(fromDay, toDay),
	}, nil
}

func (w *window) consumption(productID int64) Consumption {
	initial := w.from[productID]
	final := w.to[productID]
	totals := w.purchased[productID]

	c := Consumption{
		ProductID:    productID,
		InitialStock: initial,
		PurchasedQty: totals.Quantity,
		FinalStock:   final,
		ConsumedQty:  initial.Add(totals.Quantity).Sub(final),
		ElapsedDays:  w.days,
	}
	c.DailyRate = c.ConsumedQty.Div(decimal.NewFromInt(int64(w.days)))
	c.Anomalous = c.ConsumedQty.IsNegative()
	return c
}

func quantities(s *entity.InventorySnapshot) map[int64]decimal.Decimal {
	out := make(map[int64]decimal.Decimal, len(s.Items))
	for _, it := range s.Items {
		out[it.ProductID] = it.Quantity
	}
	return out
}
