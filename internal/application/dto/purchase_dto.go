package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest entrada para registrar una compra.
type CreatePurchaseRequest struct {
	Date       string                      `json:"date" validate:"required,datetime=2006-01-02"`
	SupplierID int64                       `json:"supplier_id" validate:"required,gt=0"`
	Items      []CreatePurchaseItemRequest `json:"items" validate:"required,min=1,dive"`
}

// CreatePurchaseItemRequest línea de compra.
type CreatePurchaseItemRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

// ListPurchasesRequest filtros opcionales de GET /api/purchases.
type ListPurchasesRequest struct {
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
}

// PurchaseItemResponse línea de compra en la salida.
type PurchaseItemResponse struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Total       decimal.Decimal `json:"total"`
}

// PurchaseResponse salida de una compra.
type PurchaseResponse struct {
	ID           int64                  `json:"id"`
	Date         string                 `json:"date"`
	SupplierID   int64                  `json:"supplier_id"`
	SupplierName string                 `json:"supplier_name,omitempty"`
	TotalAmount  decimal.Decimal        `json:"total_amount"`
	Items        []PurchaseItemResponse `json:"items"`
	CreatedAt    time.Time              `json:"created_at"`
}
