package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySnapshot conteo físico completo del stock en una fecha.
type InventorySnapshot struct {
	ID        int64
	Date      time.Time
	Items     []InventoryItem
	CreatedAt time.Time
}

// InventoryItem cantidad contada de un producto (>= 0).
type InventoryItem struct {
	ProductID   int64
	ProductName string // solo lectura (join)
	Quantity    decimal.Decimal
}

// QuantityOf devuelve la cantidad contada del producto y si aparece en el conteo.
func (s *InventorySnapshot) QuantityOf(productID int64) (decimal.Decimal, bool) {
	for _, it := range s.Items {
		if it.ProductID == productID {
			return it.Quantity, true
		}
	}
	return decimal.Zero, false
}
