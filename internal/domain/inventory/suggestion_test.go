package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
	"github.com/jhoicas/cmv-api/internal/domain/inventory"
)

func findSuggestion(t *testing.T, r *inventory.SuggestionReport, productID int64) inventory.SuggestionLine {
	t.Helper()
	for _, l := range r.Lines {
		if l.ProductID == productID {
			return l
		}
	}
	t.Fatalf("producto %d ausente de la sugerencia", productID)
	return inventory.SuggestionLine{}
}

func weekScenario(t *testing.T) *inventory.Engine {
	return newEngine(t,
		[]*entity.Purchase{
			purchase(1, "2023-12-15", 10, line(arroz, "1", "3"), line(feijao, "1", "6")),
		},
		[]*entity.InventorySnapshot{
			snapshot(1, "2024-01-01", count(arroz, "19"), count(feijao, "17"), count(oleo, "5")),
			snapshot(2, "2024-01-08", count(arroz, "5"), count(feijao, "10"), count(oleo, "8")),
		},
	)
}

func TestSuggestPurchases_EscalaConElHorizonte(t *testing.T) {
	report, err := weekScenario(t).SuggestPurchases(2, 7)
	require.NoError(t, err)

	a := findSuggestion(t, report, arroz)
	assertDec(t, "2", a.DailyRate)
	assertDec(t, "14", a.Consumption)
	assertDec(t, "5", a.CurrentStock)
	assertDec(t, "9", a.SuggestedQty, "max(0, 14 - 5)")
	assertDec(t, "3", a.EstimatedUnitCost)
	assertDec(t, "27", a.EstimatedCost)
	assert.False(t, a.InsufficientHistory)

	assert.Equal(t, int64(2), report.InventoryID)
	assert.Equal(t, int64(1), report.PreviousInventoryID)
	assert.Equal(t, 7, report.HorizonDays)
}

func TestSuggestPurchases_PisoCero(t *testing.T) {
	report, err := weekScenario(t).SuggestPurchases(2, 7)
	require.NoError(t, err)

	f := findSuggestion(t, report, feijao)
	assertDec(t, "1", f.DailyRate)
	assertDec(t, "0", f.SuggestedQty, "max(0, 7 - 10)")
	assertDec(t, "0", f.EstimatedCost)
}

func TestSuggestPurchases_ConsumoNegativoNoGeneraCompra(t *testing.T) {
	report, err := weekScenario(t).SuggestPurchases(2, 7)
	require.NoError(t, err)

	o := findSuggestion(t, report, oleo)
	assert.True(t, o.Anomalous)
	assert.True(t, o.RawDailyRate.IsNegative(), "la tasa cruda se conserva")
	assertDec(t, "0", o.DailyRate)
	assertDec(t, "0", o.SuggestedQty)
	assert.True(t, o.NoCostHistory)

	assertDec(t, "27", report.TotalEstimatedCost)
}

func TestSuggestPurchases_SinHistorial(t *testing.T) {
	report, err := weekScenario(t).SuggestPurchases(1, 7)
	require.NoError(t, err, "sin inventario anterior no es error")

	require.Len(t, report.Lines, 3)
	for _, l := range report.Lines {
		assert.True(t, l.InsufficientHistory)
		assertDec(t, "0", l.Consumption)
		assertDec(t, "0", l.SuggestedQty)
	}
	assert.Equal(t, int64(0), report.PreviousInventoryID)
}

func TestSuggestPurchases_IncluyeComprasEntreInventarios(t *testing.T) {
	e := newEngine(t,
		[]*entity.Purchase{purchase(1, "2024-01-03", 10, line(sal, "10", "1.5"))},
		[]*entity.InventorySnapshot{
			snapshot(1, "2024-01-01", count(arroz, "1")),
			snapshot(2, "2024-01-11", count(arroz, "1")),
		},
	)
	report, err := e.SuggestPurchases(2, 5)
	require.NoError(t, err)

	s := findSuggestion(t, report, sal)
	assertDec(t, "1", s.DailyRate, "10 comprados y consumidos en 10 días")
	assertDec(t, "5", s.SuggestedQty)
	assertDec(t, "7.5", s.EstimatedCost)
}

func TestSuggestPurchases_Errores(t *testing.T) {
	e := weekScenario(t)

	_, err := e.SuggestPurchases(42, 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = e.SuggestPurchases(2, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestSuggestPurchases_OrdenadoPorNombre(t *testing.T) {
	report, err := weekScenario(t).SuggestPurchases(2, 7)
	require.NoError(t, err)

	names := make([]string, 0, len(report.Lines))
	for _, l := range report.Lines {
		names = append(names, l.ProductName)
	}
	assert.Equal(t, []string{"Arroz", "feijão", "Óleo"}, names)
}
