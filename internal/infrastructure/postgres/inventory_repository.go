package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cmv-api/internal/domain/entity"
	"github.com/jhoicas/cmv-api/internal/domain/repository"
)

var _ repository.InventorySnapshotRepository = (*InventoryRepo)(nil)

// InventoryRepo persiste inventarios físicos en inventories + inventory_items.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Pasar pool o tx.
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Create inserta la cabecera del conteo y sus líneas. Debe ejecutarse dentro de una tx.
func (r *InventoryRepo) Create(ctx context.Context, s *entity.InventorySnapshot) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO inventories (inventory_date) VALUES ($1) RETURNING id, created_at`,
		dateArg(&s.Date),
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert inventory: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range s.Items {
		batch.Queue(
			`INSERT INTO inventory_items (inventory_id, product_id, quantity) VALUES ($1, $2, $3)`,
			s.ID, it.ProductID, it.Quantity,
		)
	}
	if err := execBatch(ctx, r.q, batch); err != nil {
		return fmt.Errorf("insert inventory items: %w", err)
	}
	return nil
}

// GetByID obtiene el conteo con sus líneas; nil, nil si no existe.
func (r *InventoryRepo) GetByID(ctx context.Context, id int64) (*entity.InventorySnapshot, error) {
	list, err := r.query(ctx, `SELECT id, inventory_date, created_at FROM inventories WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List devuelve los conteos del rango [from, to] ordenados por fecha e ID.
func (r *InventoryRepo) List(ctx context.Context, from, to *time.Time) ([]*entity.InventorySnapshot, error) {
	return r.query(ctx, `
		SELECT id, inventory_date, created_at FROM inventories
		WHERE ($1::date IS NULL OR inventory_date >= $1::date)
		  AND ($2::date IS NULL OR inventory_date <= $2::date)
		ORDER BY inventory_date, id`,
		dateArg(from), dateArg(to),
	)
}

func (r *InventoryRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.InventorySnapshot, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	var (
		list []*entity.InventorySnapshot
		ids  []int64
		byID = make(map[int64]*entity.InventorySnapshot)
	)
	for rows.Next() {
		var s entity.InventorySnapshot
		if err := rows.Scan(&s.ID, &s.Date, &s.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		list = append(list, &s)
		ids = append(ids, s.ID)
		byID[s.ID] = &s
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventories: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	items, err := r.q.Query(ctx,
		`SELECT i.inventory_id, i.product_id, pr.name, i.quantity
		 FROM inventory_items i JOIN products pr ON pr.id = i.product_id
		 WHERE i.inventory_id = ANY($1) ORDER BY i.inventory_id, i.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer items.Close()
	for items.Next() {
		var (
			inventoryID int64
			it          entity.InventoryItem
		)
		if err := items.Scan(&inventoryID, &it.ProductID, &it.ProductName, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		if s := byID[inventoryID]; s != nil {
			s.Items = append(s.Items, it)
		}
	}
	return list, items.Err()
}
