package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cmv-api/internal/domain/entity"
	"github.com/jhoicas/cmv-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual),
		append([]interface{}{"esperado %s, obtenido %s", expected, actual.String()}, msgAndArgs...)...)
}

func snapshot(id int64, date string, items ...entity.InventoryItem) *entity.InventorySnapshot {
	return &entity.InventorySnapshot{ID: id, Date: day(date), Items: items}
}

func count(productID int64, qty string) entity.InventoryItem {
	return entity.InventoryItem{ProductID: productID, Quantity: dec(qty)}
}

func purchase(id int64, date string, supplierID int64, items ...entity.PurchaseItem) *entity.Purchase {
	return &entity.Purchase{ID: id, Date: day(date), SupplierID: supplierID, Items: items}
}

func line(productID int64, qty, unitCost string) entity.PurchaseItem {
	return entity.PurchaseItem{ProductID: productID, Quantity: dec(qty), UnitCost: dec(unitCost)}
}

const (
	arroz  int64 = 1
	feijao int64 = 2
	oleo   int64 = 3
	sal    int64 = 4
)

func catalog() []*entity.Product {
	return []*entity.Product{
		{ID: sal, Name: "Sal", Unit: "kg"},
		{ID: oleo, Name: "Óleo", Unit: "lt"},
		{ID: arroz, Name: "Arroz", Unit: "kg"},
		{ID: feijao, Name: "feijão", Unit: "kg"},
	}
}

func newEngine(t *testing.T, purchases []*entity.Purchase, snapshots []*entity.InventorySnapshot) *inventory.Engine {
	t.Helper()
	e, err := inventory.NewEngine(catalog(), purchases, snapshots)
	require.NoError(t, err)
	return e
}
