package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cmv-api/internal/application/dto"
	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
	"github.com/jhoicas/cmv-api/internal/domain/repository"
)

// PurchaseUseCase registra y lista compras. Una compra nunca se modifica tras crearse.
type PurchaseUseCase struct {
	tx           TxRunner
	purchaseRepo repository.PurchaseRepository
	productRepo  repository.ProductRepository
	supplierRepo repository.SupplierRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(
	tx TxRunner,
	purchaseRepo repository.PurchaseRepository,
	productRepo repository.ProductRepository,
	supplierRepo repository.SupplierRepository,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		tx:           tx,
		purchaseRepo: purchaseRepo,
		productRepo:  productRepo,
		supplierRepo: supplierRepo,
	}
}

// Create valida y persiste la compra (cabecera + líneas) en una sola transacción.
// Reglas: al menos una línea, cantidad > 0, costo unitario >= 0, sin productos repetidos,
// proveedor y productos existentes.
func (uc *PurchaseUseCase) Create(ctx context.Context, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la compra requiere al menos una línea", domain.ErrInvalidInput)
	}

	supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %d", domain.ErrNotFound, in.SupplierID)
	}

	purchase := &entity.Purchase{
		Date:         date,
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		Items:        make([]entity.PurchaseItem, 0, len(in.Items)),
		CreatedAt:    time.Now().UTC(),
	}
	seen := make(map[int64]struct{}, len(in.Items))
	for _, it := range in.Items {
		if !it.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: producto %d con cantidad no positiva", domain.ErrInvalidInput, it.ProductID)
		}
		if it.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: producto %d con costo negativo", domain.ErrInvalidInput, it.ProductID)
		}
		if err := checkScale("quantity", it.ProductID, it.Quantity); err != nil {
			return nil, err
		}
		if err := checkScale("unit_cost", it.ProductID, it.UnitCost); err != nil {
			return nil, err
		}
		if _, dup := seen[it.ProductID]; dup {
			return nil, fmt.Errorf("%w: producto %d repetido en la compra", domain.ErrInvalidInput, it.ProductID)
		}
		seen[it.ProductID] = struct{}{}
		product, err := ensureProduct(ctx, uc.productRepo, it.ProductID)
		if err != nil {
			return nil, err
		}
		purchase.Items = append(purchase.Items, entity.PurchaseItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
		})
	}

	err = uc.tx.Run(ctx, func(purchaseRepo repository.PurchaseRepository, _ repository.InventorySnapshotRepository) error {
		return purchaseRepo.Create(ctx, purchase)
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseResponse(purchase), nil
}

// GetByID obtiene una compra por ID.
func (uc *PurchaseUseCase) GetByID(ctx context.Context, id int64) (*dto.PurchaseResponse, error) {
	p, err := uc.purchaseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseResponse(p), nil
}

// List lista compras, opcionalmente filtradas por rango de fechas (inclusivo).
func (uc *PurchaseUseCase) List(ctx context.Context, in dto.ListPurchasesRequest) ([]dto.PurchaseResponse, error) {
	from, to, err := parseOptionalRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	list, err := uc.purchaseRepo.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toPurchaseResponse(p))
	}
	return items, nil
}

// maxScale decimales que guardan las columnas NUMERIC(18,4).
const maxScale = 4

// checkScale rechaza valores que PostgreSQL redondearía al guardar.
func checkScale(field string, productID int64, d decimal.Decimal) error {
	if !d.Equal(d.Truncate(maxScale)) {
		return fmt.Errorf("%w: producto %d: %s admite hasta %d decimales", domain.ErrInvalidInput, productID, field, maxScale)
	}
	return nil
}

func ensureProduct(ctx context.Context, repo repository.ProductRepository, id int64) (*entity.Product, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return p, nil
}

func toPurchaseResponse(p *entity.Purchase) *dto.PurchaseResponse {
	items := make([]dto.PurchaseItemResponse, 0, len(p.Items))
	for _, it := range p.Items {
		items = append(items, dto.PurchaseItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			Total:       it.Total().Round(2),
		})
	}
	return &dto.PurchaseResponse{
		ID:           p.ID,
		Date:         p.Date.Format(dto.DateLayout),
		SupplierID:   p.SupplierID,
		SupplierName: p.SupplierName,
		TotalAmount:  p.TotalAmount().Round(2),
		Items:        items,
		CreatedAt:    p.CreatedAt,
	}
}
