// Package memory implementa los repositorios en memoria (STORAGE_DRIVER=memory).
// Útil para desarrollo local y como doble de prueba de los casos de uso.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/cmv-api/internal/application/usecase"
	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
	"github.com/jhoicas/cmv-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository           = (*ProductRepo)(nil)
	_ repository.SupplierRepository          = (*SupplierRepo)(nil)
	_ repository.PurchaseRepository          = (*PurchaseRepo)(nil)
	_ repository.InventorySnapshotRepository = (*SnapshotRepo)(nil)
	_ usecase.TxRunner                       = (*Store)(nil)
)

// Store datos compartidos por los repositorios en memoria.
type Store struct {
	mu        sync.RWMutex
	products  map[int64]*entity.Product
	suppliers map[int64]*entity.Supplier
	purchases map[int64]*entity.Purchase
	snapshots map[int64]*entity.InventorySnapshot
	seq       map[string]int64

	Products  *ProductRepo
	Suppliers *SupplierRepo
	Purchases *PurchaseRepo
	Snapshots *SnapshotRepo
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	s := &Store{
		products:  make(map[int64]*entity.Product),
		suppliers: make(map[int64]*entity.Supplier),
		purchases: make(map[int64]*entity.Purchase),
		snapshots: make(map[int64]*entity.InventorySnapshot),
		seq:       make(map[string]int64),
	}
	s.Products = &ProductRepo{s: s}
	s.Suppliers = &SupplierRepo{s: s}
	s.Purchases = &PurchaseRepo{s: s}
	s.Snapshots = &SnapshotRepo{s: s}
	return s
}

// Run ejecuta fn con los repositorios del almacén. Las escrituras individuales ya son atómicas.
func (s *Store) Run(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	snapshotRepo repository.InventorySnapshotRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(s.Purchases, s.Snapshots)
}

// nextID asigna el siguiente ID de la tabla, o respeta uno explícito (> 0).
func (s *Store) nextID(table string, explicit int64) int64 {
	if explicit > s.seq[table] {
		s.seq[table] = explicit
		return explicit
	}
	if explicit > 0 {
		return explicit
	}
	s.seq[table]++
	return s.seq[table]
}

// productName resuelve el nombre como lo haría el join en PostgreSQL. Requiere el lock tomado.
func (s *Store) productName(id int64) string {
	if p, ok := s.products[id]; ok {
		return p.Name
	}
	return ""
}

func inRange(date time.Time, from, to *time.Time) bool {
	d := day(date)
	if from != nil && d.Before(day(*from)) {
		return false
	}
	if to != nil && d.After(day(*to)) {
		return false
	}
	return true
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ── Products ──────────────────────────────────────────────────────────────────

// ProductRepo repositorio de productos en memoria.
type ProductRepo struct{ s *Store }

// Create persiste un producto y asigna su ID.
func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.products[p.ID]; exists && p.ID > 0 {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.products {
		if other.Name == p.Name {
			return domain.ErrDuplicate
		}
	}
	p.ID = r.s.nextID("products", p.ID)
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// List devuelve los productos ordenados por ID.
func (r *ProductRepo) List(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Suppliers ─────────────────────────────────────────────────────────────────

// SupplierRepo repositorio de proveedores en memoria.
type SupplierRepo struct{ s *Store }

// Create persiste un proveedor y asigna su ID.
func (r *SupplierRepo) Create(_ context.Context, sp *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.suppliers[sp.ID]; exists && sp.ID > 0 {
		return domain.ErrDuplicate
	}
	sp.ID = r.s.nextID("suppliers", sp.ID)
	cp := *sp
	r.s.suppliers[sp.ID] = &cp
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *SupplierRepo) GetByID(_ context.Context, id int64) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *sp
	return &cp, nil
}

// List devuelve los proveedores ordenados por ID.
func (r *SupplierRepo) List(_ context.Context) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Supplier, 0, len(r.s.suppliers))
	for _, sp := range r.s.suppliers {
		cp := *sp
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Purchases ─────────────────────────────────────────────────────────────────

// PurchaseRepo repositorio de compras en memoria.
type PurchaseRepo struct{ s *Store }

// Create persiste la compra con sus líneas y asigna su ID.
func (r *PurchaseRepo) Create(_ context.Context, p *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.purchases[p.ID]; exists && p.ID > 0 {
		return domain.ErrDuplicate
	}
	if sp, ok := r.s.suppliers[p.SupplierID]; ok {
		p.SupplierName = sp.Name
	}
	for i := range p.Items {
		p.Items[i].ProductName = r.s.productName(p.Items[i].ProductID)
	}
	p.ID = r.s.nextID("purchases", p.ID)
	stored := clonePurchase(p)
	stored.Date = day(p.Date)
	r.s.purchases[p.ID] = stored
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *PurchaseRepo) GetByID(_ context.Context, id int64) (*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	return clonePurchase(p), nil
}

// List devuelve las compras del rango ordenadas por fecha e ID. Las fechas se guardan como día, igual que la columna DATE.
func (r *PurchaseRepo) List(_ context.Context, from, to *time.Time) ([]*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Purchase, 0, len(r.s.purchases))
	for _, p := range r.s.purchases {
		if inRange(p.Date, from, to) {
			out = append(out, clonePurchase(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func clonePurchase(p *entity.Purchase) *entity.Purchase {
	cp := *p
	cp.Items = append([]entity.PurchaseItem(nil), p.Items...)
	return &cp
}

// ── Inventory snapshots ───────────────────────────────────────────────────────

// SnapshotRepo repositorio de inventarios en memoria.
type SnapshotRepo struct{ s *Store }

// Create persiste el inventario con sus líneas y asigna su ID.
func (r *SnapshotRepo) Create(_ context.Context, sn *entity.InventorySnapshot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.snapshots[sn.ID]; exists && sn.ID > 0 {
		return domain.ErrDuplicate
	}
	for i := range sn.Items {
		sn.Items[i].ProductName = r.s.productName(sn.Items[i].ProductID)
	}
	sn.ID = r.s.nextID("inventories", sn.ID)
	stored := cloneSnapshot(sn)
	stored.Date = day(sn.Date)
	r.s.snapshots[sn.ID] = stored
	return nil
}

// GetByID devuelve nil, nil si no existe.
func (r *SnapshotRepo) GetByID(_ context.Context, id int64) (*entity.InventorySnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sn, ok := r.s.snapshots[id]
	if !ok {
		return nil, nil
	}
	return cloneSnapshot(sn), nil
}

// List devuelve los inventarios del rango ordenados por fecha e ID.
func (r *SnapshotRepo) List(_ context.Context, from, to *time.Time) ([]*entity.InventorySnapshot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.InventorySnapshot, 0, len(r.s.snapshots))
	for _, sn := range r.s.snapshots {
		if inRange(sn.Date, from, to) {
			out = append(out, cloneSnapshot(sn))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func cloneSnapshot(sn *entity.InventorySnapshot) *entity.InventorySnapshot {
	cp := *sn
	cp.Items = append([]entity.InventoryItem(nil), sn.Items...)
	return &cp
}
