package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
)

// PurchaseTotals cantidad y costo acumulados de un producto en un rango.
type PurchaseTotals struct {
	Quantity decimal.Decimal
	Cost     decimal.Decimal // Σ cantidad * costo unitario
}

type costPoint struct {
	day        time.Time
	purchaseID int64
	unitCost   decimal.Decimal
}

// PurchaseLedger vista de solo lectura del libro de compras, ordenada por (fecha, ID).
type PurchaseLedger struct {
	purchases []*entity.Purchase
	history   map[int64][]costPoint // por producto, mismo orden que purchases
}

// NewPurchaseLedger construye la vista validando las líneas de cada compra:
// al menos una línea, cantidad > 0, costo unitario >= 0 y sin productos repetidos.
func NewPurchaseLedger(purchases []*entity.Purchase) (*PurchaseLedger, error) {
	sorted := make([]*entity.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if p != nil {
			sorted = append(sorted, p)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := Day(sorted[i].Date), Day(sorted[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return sorted[i].ID < sorted[j].ID
	})

	l := &PurchaseLedger{purchases: sorted, history: make(map[int64][]costPoint)}
	for _, p := range sorted {
		if len(p.Items) == 0 {
			return nil, fmt.Errorf("%w: compra %d sin líneas", domain.ErrInvalidInput, p.ID)
		}
		seen := make(map[int64]struct{}, len(p.Items))
		for _, it := range p.Items {
			if !it.Quantity.IsPositive() {
				return nil, fmt.Errorf("%w: compra %d, producto %d con cantidad no positiva",
					domain.ErrInvalidInput, p.ID, it.ProductID)
			}
			if it.UnitCost.IsNegative() {
				return nil, fmt.Errorf("%w: compra %d, producto %d con costo negativo",
					domain.ErrInvalidInput, p.ID, it.ProductID)
			}
			if _, dup := seen[it.ProductID]; dup {
				return nil, fmt.Errorf("%w: compra %d, producto %d repetido",
					domain.ErrInvalidInput, p.ID, it.ProductID)
			}
			seen[it.ProductID] = struct{}{}
			l.history[it.ProductID] = append(l.history[it.ProductID], costPoint{
				day:        Day(p.Date),
				purchaseID: p.ID,
				unitCost:   it.UnitCost,
			})
		}
	}
	return l, nil
}

// PurchasedBetween agrega cantidad y costo por producto de todas las compras con fecha
// en [start, end] (inclusivo por día), sin importar el proveedor. Los productos sin
// compras en el rango no aparecen en el resultado.
func (l *PurchaseLedger) PurchasedBetween(start, end time.Time) map[int64]PurchaseTotals {
	from, to := Day(start), Day(end)
	first := sort.Search(len(l.purchases), func(i int) bool {
		return !Day(l.purchases[i].Date).Before(from)
	})

	out := make(map[int64]PurchaseTotals)
	for _, p := range l.purchases[first:] {
		if Day(p.Date).After(to) {
			break
		}
		for _, it := range p.Items {
			acc := out[it.ProductID]
			acc.Quantity = acc.Quantity.Add(it.Quantity)
			acc.Cost = acc.Cost.Add(it.Total())
			out[it.ProductID] = acc
		}
	}
	return out
}

// LastUnitCost devuelve el costo unitario de la compra más reciente del producto con
// fecha <= asOf (empate del mismo día: compra de ID mayor).
func (l *PurchaseLedger) LastUnitCost(productID int64, asOf time.Time) (decimal.Decimal, bool) {
	points := l.history[productID]
	d := Day(asOf)
	n := sort.Search(len(points), func(i int) bool {
		return points[i].day.After(d)
	})
	if n == 0 {
		return decimal.Zero, false
	}
	return points[n-1].unitCost, true
}
