package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/cmv-api/internal/application/dto"
	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
	"github.com/jhoicas/cmv-api/internal/domain/repository"
)

// InventoryUseCase registra y lista inventarios físicos (conteos completos de stock).
type InventoryUseCase struct {
	tx           TxRunner
	snapshotRepo repository.InventorySnapshotRepository
	productRepo  repository.ProductRepository
}

// NewInventoryUseCase construye el caso de uso.
func NewInventoryUseCase(
	tx TxRunner,
	snapshotRepo repository.InventorySnapshotRepository,
	productRepo repository.ProductRepository,
) *InventoryUseCase {
	return &InventoryUseCase{tx: tx, snapshotRepo: snapshotRepo, productRepo: productRepo}
}

// Create valida y persiste el inventario (cabecera + líneas) en una sola transacción.
func (uc *InventoryUseCase) Create(ctx context.Context, in dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	date, err := parseDate("date", in.Date)
	if err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el inventario requiere al menos una línea", domain.ErrInvalidInput)
	}

	snapshot := &entity.InventorySnapshot{
		Date:      date,
		Items:     make([]entity.InventoryItem, 0, len(in.Items)),
		CreatedAt: time.Now().UTC(),
	}
	seen := make(map[int64]struct{}, len(in.Items))
	for _, it := range in.Items {
		if it.Quantity.IsNegative() {
			return nil, fmt.Errorf("%w: producto %d con cantidad negativa", domain.ErrInvalidInput, it.ProductID)
		}
		if err := checkScale("quantity", it.ProductID, it.Quantity); err != nil {
			return nil, err
		}
		if _, dup := seen[it.ProductID]; dup {
			return nil, fmt.Errorf("%w: producto %d repetido en el inventario", domain.ErrInvalidInput, it.ProductID)
		}
		seen[it.ProductID] = struct{}{}
		product, err := ensureProduct(ctx, uc.productRepo, it.ProductID)
		if err != nil {
			return nil, err
		}
		snapshot.Items = append(snapshot.Items, entity.InventoryItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    it.Quantity,
		})
	}

	err = uc.tx.Run(ctx, func(_ repository.PurchaseRepository, snapshotRepo repository.InventorySnapshotRepository) error {
		return snapshotRepo.Create(ctx, snapshot)
	})
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(snapshot), nil
}

// GetByID obtiene un inventario por ID.
func (uc *InventoryUseCase) GetByID(ctx context.Context, id int64) (*dto.InventoryResponse, error) {
	s, err := uc.snapshotRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toInventoryResponse(s), nil
}

// List lista inventarios ordenados por fecha, opcionalmente filtrados por rango.
func (uc *InventoryUseCase) List(ctx context.Context, in dto.ListInventoriesRequest) ([]dto.InventoryResponse, error) {
	from, to, err := parseOptionalRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}
	list, err := uc.snapshotRepo.List(ctx, from, to)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toInventoryResponse(s))
	}
	return items, nil
}

func toInventoryResponse(s *entity.InventorySnapshot) *dto.InventoryResponse {
	items := make([]dto.InventoryItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.InventoryItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
		})
	}
	return &dto.InventoryResponse{
		ID:        s.ID,
		Date:      s.Date.Format(dto.DateLayout),
		Items:     items,
		CreatedAt: s.CreatedAt,
	}
}
