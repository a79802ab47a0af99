package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
	"github.com/jhoicas/cmv-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo persiste compras en purchases + purchase_items. Create debe ejecutarse dentro de una tx.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador. Pasar pool o tx.
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

// Create inserta la cabecera y sus líneas en un solo batch.
func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO purchases (purchase_date, supplier_id) VALUES ($1, $2) RETURNING id, created_at`,
		dateArg(&p.Date), nullableID(p.SupplierID),
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: proveedor %d", domain.ErrNotFound, p.SupplierID)
		}
		return fmt.Errorf("insert purchase: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range p.Items {
		batch.Queue(
			`INSERT INTO purchase_items (purchase_id, product_id, quantity, unit_cost) VALUES ($1, $2, $3, $4)`,
			p.ID, it.ProductID, it.Quantity, it.UnitCost,
		)
	}
	if err := execBatch(ctx, r.q, batch); err != nil {
		return fmt.Errorf("insert purchase items: %w", err)
	}
	return nil
}

// GetByID obtiene la compra con sus líneas; nil, nil si no existe.
func (r *PurchaseRepo) GetByID(ctx context.Context, id int64) (*entity.Purchase, error) {
	list, err := r.query(ctx, purchaseSelect+` WHERE p.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// List devuelve las compras del rango [from, to] ordenadas por fecha e ID.
func (r *PurchaseRepo) List(ctx context.Context, from, to *time.Time) ([]*entity.Purchase, error) {
	return r.query(ctx, purchaseSelect+`
		WHERE ($1::date IS NULL OR p.purchase_date >= $1::date)
		  AND ($2::date IS NULL OR p.purchase_date <= $2::date)
		ORDER BY p.purchase_date, p.id`,
		dateArg(from), dateArg(to),
	)
}

const purchaseSelect = `
	SELECT p.id, p.purchase_date, COALESCE(p.supplier_id, 0), COALESCE(s.name, ''), p.created_at
	FROM purchases p
	LEFT JOIN suppliers s ON s.id = p.supplier_id`

func (r *PurchaseRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Purchase, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	var (
		list []*entity.Purchase
		ids  []int64
		byID = make(map[int64]*entity.Purchase)
	)
	for rows.Next() {
		var p entity.Purchase
		if err := rows.Scan(&p.ID, &p.Date, &p.SupplierID, &p.SupplierName, &p.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		list = append(list, &p)
		ids = append(ids, p.ID)
		byID[p.ID] = &p
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	if len(ids) == 0 {
		return list, nil
	}

	items, err := r.q.Query(ctx,
		`SELECT i.purchase_id, i.product_id, pr.name, i.quantity, i.unit_cost
		 FROM purchase_items i JOIN products pr ON pr.id = i.product_id
		 WHERE i.purchase_id = ANY($1) ORDER BY i.purchase_id, i.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list purchase items: %w", err)
	}
	defer items.Close()
	for items.Next() {
		var (
			purchaseID int64
			it         entity.PurchaseItem
		)
		if err := items.Scan(&purchaseID, &it.ProductID, &it.ProductName, &it.Quantity, &it.UnitCost); err != nil {
			return nil, fmt.Errorf("scan purchase item: %w", err)
		}
		if p := byID[purchaseID]; p != nil {
			p.Items = append(p.Items, it)
		}
	}
	return list, items.Err()
}

// execBatch envía el batch y traduce violaciones de llave foránea a ErrNotFound.
func execBatch(ctx context.Context, q Querier, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	br := q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			if isForeignKeyViolation(err) {
				return fmt.Errorf("%w: producto inexistente", domain.ErrNotFound)
			}
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: producto repetido", domain.ErrInvalidInput)
			}
			return err
		}
	}
	return nil
}

func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}
