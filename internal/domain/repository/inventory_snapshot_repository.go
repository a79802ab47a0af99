package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cmv-api/internal/domain/entity"
)

// InventorySnapshotRepository define el puerto de persistencia para inventarios físicos.
// List devuelve los inventarios ordenados por fecha y luego por ID.
type InventorySnapshotRepository interface {
	Create(ctx context.Context, snapshot *entity.InventorySnapshot) error
	GetByID(ctx context.Context, id int64) (*entity.InventorySnapshot, error)
	List(ctx context.Context, from, to *time.Time) ([]*entity.InventorySnapshot, error)
}
