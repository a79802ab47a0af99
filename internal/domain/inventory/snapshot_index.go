package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
)

// Day normaliza una fecha a su día civil en UTC. Todas las comparaciones del motor son por día.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SnapshotIndex índice de inventarios físicos ordenado por (fecha, ID).
// Resuelve el conteo vigente en una fecha con búsqueda binaria; ante dos inventarios
// del mismo día gana el de ID mayor.
type SnapshotIndex struct {
	snapshots []*entity.InventorySnapshot
	counts    []map[int64]decimal.Decimal
	byID      map[int64]int
}

// NewSnapshotIndex construye el índice. No modifica el slice recibido.
// Falla con ErrInvalidInput si un inventario repite un producto o trae cantidades negativas.
func NewSnapshotIndex(snapshots []*entity.InventorySnapshot) (*SnapshotIndex, error) {
	sorted := make([]*entity.InventorySnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s != nil {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		di, dj := Day(sorted[i].Date), Day(sorted[j].Date)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return sorted[i].ID < sorted[j].ID
	})

	ix := &SnapshotIndex{
		snapshots: sorted,
		counts:    make([]map[int64]decimal.Decimal, len(sorted)),
		byID:      make(map[int64]int, len(sorted)),
	}
	for i, s := range sorted {
		if _, dup := ix.byID[s.ID]; dup {
			return nil, fmt.Errorf("%w: inventario %d repetido", domain.ErrInvalidInput, s.ID)
		}
		counts := make(map[int64]decimal.Decimal, len(s.Items))
		for _, it := range s.Items {
			if it.Quantity.IsNegative() {
				return nil, fmt.Errorf("%w: inventario %d, producto %d con cantidad negativa",
					domain.ErrInvalidInput, s.ID, it.ProductID)
			}
			if _, dup := counts[it.ProductID]; dup {
				return nil, fmt.Errorf("%w: inventario %d, producto %d repetido",
					domain.ErrInvalidInput, s.ID, it.ProductID)
			}
			counts[it.ProductID] = it.Quantity
		}
		ix.counts[i] = counts
		ix.byID[s.ID] = i
	}
	return ix, nil
}

// Len cantidad de inventarios indexados.
func (ix *SnapshotIndex) Len() int { return len(ix.snapshots) }

// latestAt devuelve la posición del último inventario con fecha <= date, o -1.
func (ix *SnapshotIndex) latestAt(date time.Time) int {
	d := Day(date)
	n := sort.Search(len(ix.snapshots), func(i int) bool {
		return Day(ix.snapshots[i].Date).After(d)
	})
	return n - 1
}

// At devuelve el inventario vigente en la fecha (el más reciente con fecha <= date).
func (ix *SnapshotIndex) At(date time.Time) (*entity.InventorySnapshot, bool) {
	pos := ix.latestAt(date)
	if pos < 0 {
		return nil, false
	}
	return ix.snapshots[pos], true
}

// StockAt devuelve la cantidad del producto en el inventario vigente a la fecha.
// baseline es false si no existe ningún inventario con fecha <= asOf; en ese caso la
// cantidad es cero y el llamador debe marcar el reporte como de datos parciales.
// Un producto ausente del inventario vigente cuenta como cero con baseline = true.
func (ix *SnapshotIndex) StockAt(productID int64, asOf time.Time) (qty decimal.Decimal, baseline bool) {
	pos := ix.latestAt(asOf)
	if pos < 0 {
		return decimal.Zero, false
	}
	return ix.quantity(pos, productID), true
}

// ByID busca un inventario por identificador.
func (ix *SnapshotIndex) ByID(id int64) (*entity.InventorySnapshot, bool) {
	pos, ok := ix.byID[id]
	if !ok {
		return nil, false
	}
	return ix.snapshots[pos], true
}

// Previous devuelve el inventario inmediatamente anterior al indicado: el de fecha
// estrictamente menor más reciente (empate por ID mayor).
func (ix *SnapshotIndex) Previous(id int64) (*entity.InventorySnapshot, bool) {
	pos, ok := ix.byID[id]
	if !ok {
		return nil, false
	}
	d := Day(ix.snapshots[pos].Date)
	first := sort.Search(len(ix.snapshots), func(i int) bool {
		return !Day(ix.snapshots[i].Date).Before(d)
	})
	if first == 0 {
		return nil, false
	}
	return ix.snapshots[first-1], true
}

func (ix *SnapshotIndex) quantity(pos int, productID int64) decimal.Decimal {
	if q, ok := ix.counts[pos][productID]; ok {
		return q
	}
	return decimal.Zero
}
