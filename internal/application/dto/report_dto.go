package dto

import "github.com/shopspring/decimal"

// ── Query parameters ──────────────────────────────────────────────────────────

// CMVReportRequest parámetros para GET /api/reports/cmv.
type CMVReportRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD, obligatorio
	EndDate   string `query:"end_date"`   // YYYY-MM-DD, obligatorio
}

// PurchaseSuggestionRequest parámetros para GET /api/reports/purchase_list.
type PurchaseSuggestionRequest struct {
	InventoryID int64 `query:"inventory_id"`
	HorizonDays int   `query:"horizon_days"` // 0 = valor por defecto configurado
}

// ── CMV ───────────────────────────────────────────────────────────────────────

// PeriodDTO rango de fechas del reporte.
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CMVProductDTO conciliación de un producto.
// Fórmula: consumido = inicial + compras - final; cmv = consumido * costo_unitario
type CMVProductDTO struct {
	ProductID         int64           `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Unit              string          `json:"unit"`
	InitialStock      decimal.Decimal `json:"initial_stock"`
	PurchasesQuantity decimal.Decimal `json:"purchases_quantity"`
	PurchasesCost     decimal.Decimal `json:"purchases_cost"`
	FinalStock        decimal.Decimal `json:"final_stock"`
	ConsumedQuantity  decimal.Decimal `json:"consumed_quantity"` // con signo
	UnitCost          decimal.Decimal `json:"unit_cost"`
	CMV               decimal.Decimal `json:"cmv"`            // con signo
	Anomalous         bool            `json:"anomalous"`      // consumo negativo
	CostEstimated     bool            `json:"cost_estimated"` // costo de la última compra anterior
	NoCostBasis       bool            `json:"no_cost_basis"`  // sin compras de referencia
}

// CMVReportDTO respuesta de GET /api/reports/cmv.
type CMVReportDTO struct {
	Period                 PeriodDTO       `json:"period"`
	TotalCMV               decimal.Decimal `json:"total_cmv"`
	MissingInitialBaseline bool            `json:"missing_initial_baseline"`
	MissingFinalBaseline   bool            `json:"missing_final_baseline"`
	Products               []CMVProductDTO `json:"products"`
}

// ── Lista de compras ──────────────────────────────────────────────────────────

// PurchaseSuggestionItemDTO sugerencia de compra de un producto.
type PurchaseSuggestionItemDTO struct {
	ProductID           int64           `json:"product_id"`
	ProductName         string          `json:"product_name"`
	Unit                string          `json:"unit"`
	CurrentStock        decimal.Decimal `json:"current_stock"`
	DailyConsumption    decimal.Decimal `json:"daily_consumption"`     // >= 0, usada para sugerir
	RawDailyConsumption decimal.Decimal `json:"raw_daily_consumption"` // con signo; negativa si anomalous
	Consumption         decimal.Decimal `json:"consumption"`           // tasa diaria * horizonte
	SuggestedQuantity   decimal.Decimal `json:"suggested_quantity"`
	EstimatedUnitCost   decimal.Decimal `json:"estimated_unit_cost"`
	EstimatedCost       decimal.Decimal `json:"estimated_cost"`
	InsufficientHistory bool            `json:"insufficient_history"`
	Anomalous           bool            `json:"anomalous"`
	NoCostHistory       bool            `json:"no_cost_history"`
}

// PurchaseSuggestionDTO respuesta de GET /api/reports/purchase_list.
type PurchaseSuggestionDTO struct {
	InventoryID         int64                       `json:"inventory_id"`
	InventoryDate       string                      `json:"inventory_date"`
	PreviousInventoryID *int64                      `json:"previous_inventory_id,omitempty"`
	HorizonDays         int                         `json:"horizon_days"`
	TotalEstimatedCost  decimal.Decimal             `json:"total_estimated_cost"`
	Items               []PurchaseSuggestionItemDTO `json:"items"`
}
