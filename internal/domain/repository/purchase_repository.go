package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cmv-api/internal/domain/entity"
)

// PurchaseRepository define el puerto de persistencia para compras (cabecera + líneas).
// Los rangos son inclusivos por día; nil significa sin límite.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id int64) (*entity.Purchase, error)
	List(ctx context.Context, from, to *time.Time) ([]*entity.Purchase, error)
}
