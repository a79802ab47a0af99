package usecase

import (
	"context"

	"github.com/jhoicas/cmv-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que la cabecera y las líneas de compras e inventarios se persistan juntas.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		snapshotRepo repository.InventorySnapshotRepository,
	) error) error
}
