package inventory

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
)

// DefaultHorizonDays horizonte de reposición por defecto (días).
const DefaultHorizonDays = 7

// Engine agrupa las vistas de solo lectura de una única solicitud de reporte.
// Se construye por solicitud y no guarda estado entre llamadas; sus métodos son
// funciones puras de las vistas y pueden ejecutarse concurrentemente.
type Engine struct {
	products map[int64]*entity.Product
	index    *SnapshotIndex
	ledger   *PurchaseLedger
	locale   language.Tag
}

// Option configura el motor.
type Option func(*Engine)

// WithLocale define el idioma usado para ordenar por nombre de producto.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) { e.locale = tag }
}

// NewEngine construye el motor a partir de las vistas completas entregadas por el llamador.
func NewEngine(
	products []*entity.Product,
	purchases []*entity.Purchase,
	snapshots []*entity.InventorySnapshot,
	opts ...Option,
) (*Engine, error) {
	catalog := make(map[int64]*entity.Product, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		if _, dup := catalog[p.ID]; dup {
			return nil, fmt.Errorf("%w: producto %d repetido", domain.ErrInvalidInput, p.ID)
		}
		catalog[p.ID] = p
	}
	index, err := NewSnapshotIndex(snapshots)
	if err != nil {
		return nil, err
	}
	ledger, err := NewPurchaseLedger(purchases)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		products: catalog,
		index:    index,
		ledger:   ledger,
		locale:   language.BrazilianPortuguese,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Snapshots expone el índice de inventarios.
func (e *Engine) Snapshots() *SnapshotIndex { return e.index }

// Ledger expone la vista del libro de compras.
func (e *Engine) Ledger() *PurchaseLedger { return e.ledger }

func (e *Engine) product(id int64) (*entity.Product, error) {
	p, ok := e.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return p, nil
}

// sortByName ordena las líneas por nombre de producto según el idioma configurado;
// empate por ID para que el orden sea determinista.
func sortByName[T any](locale language.Tag, lines []T, key func(T) (string, int64)) {
	col := collate.New(locale)
	sort.SliceStable(lines, func(i, j int) bool {
		ni, idi := key(lines[i])
		nj, idj := key(lines[j])
		if c := col.CompareString(ni, nj); c != 0 {
			return c < 0
		}
		return idi < idj
	})
}

// productSet acumula IDs de producto sin repetir.
type productSet map[int64]struct{}

func (s productSet) add(id int64) { s[id] = struct{}{} }
