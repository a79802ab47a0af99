package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase representa una compra a proveedor. Solo se agrega; nunca se modifica.
type Purchase struct {
	ID           int64
	Date         time.Time
	SupplierID   int64
	SupplierName string // solo lectura (join)
	Items        []PurchaseItem
	CreatedAt    time.Time
}

// PurchaseItem línea de compra: cantidad > 0, costo unitario >= 0.
type PurchaseItem struct {
	ProductID   int64
	ProductName string // solo lectura (join)
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
}

// Total devuelve cantidad * costo unitario de la línea.
func (i PurchaseItem) Total() decimal.Decimal {
	return i.Quantity.Mul(i.UnitCost)
}

// TotalAmount suma el total de todas las líneas.
func (p *Purchase) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, it := range p.Items {
		total = total.Add(it.Total())
	}
	return total
}
