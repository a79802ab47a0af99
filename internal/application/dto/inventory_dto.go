package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryRequest entrada para registrar un inventario físico.
type CreateInventoryRequest struct {
	Date  string                       `json:"date" validate:"required,datetime=2006-01-02"`
	Items []CreateInventoryItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreateInventoryItemRequest cantidad contada de un producto.
type CreateInventoryItemRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// ListInventoriesRequest filtros opcionales de GET /api/inventories.
type ListInventoriesRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// InventoryItemResponse línea de inventario en la salida.
type InventoryItemResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// InventoryResponse salida de un inventario.
type InventoryResponse struct {
	ID        int64                   `json:"id"`
	Date      string                  `json:"date"`
	Items     []InventoryItemResponse `json:"items"`
	CreatedAt time.Time               `json:"created_at"`
}
