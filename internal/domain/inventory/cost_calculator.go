package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost implementa el costo promedio ponderado de un período (servicio de dominio).
// CostoUnitario = CostoTotalComprado / CantidadTotalComprada
// Devuelve false cuando no hubo cantidad comprada y por lo tanto no hay base de costo.
func WeightedAverageCost(totals PurchaseTotals) (decimal.Decimal, bool) {
	if totals.Quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false
	}
	return totals.Cost.Div(totals.Quantity), true
}
