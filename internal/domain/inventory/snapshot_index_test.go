package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cmv-api/internal/domain"
	"github.com/jhoicas/cmv-api/internal/domain/entity"
	"github.com/jhoicas/cmv-api/internal/domain/inventory"
)

func TestSnapshotIndex_StockAtUsaElInventarioVigente(t *testing.T) {
	ix, err := inventory.NewSnapshotIndex([]*entity.InventorySnapshot{
		snapshot(2, "2024-02-01", count(arroz, "8")),
		snapshot(1, "2024-01-01", count(arroz, "10"), count(feijao, "4")),
	})
	require.NoError(t, err)

	qty, baseline := ix.StockAt(arroz, day("2024-01-15"))
	assert.True(t, baseline)
	assertDec(t, "10", qty)

	qty, baseline = ix.StockAt(arroz, day("2024-02-01"))
	assert.True(t, baseline, "el inventario del mismo día cuenta (<=)")
	assertDec(t, "8", qty)

	// feijão no aparece en el inventario vigente del 2024-02-01 → cero con baseline
	qty, baseline = ix.StockAt(feijao, day("2024-03-01"))
	assert.True(t, baseline)
	assertDec(t, "0", qty)
}

func TestSnapshotIndex_SinInventarioPrevioNoEsError(t *testing.T) {
	ix, err := inventory.NewSnapshotIndex([]*entity.InventorySnapshot{
		snapshot(1, "2024-01-10", count(arroz, "10")),
	})
	require.NoError(t, err)

	qty, baseline := ix.StockAt(arroz, day("2024-01-09"))
	assert.False(t, baseline, "sin inventario anterior la línea base es desconocida")
	assertDec(t, "0", qty)

	_, ok := ix.At(day("2024-01-09"))
	assert.False(t, ok)
}

func TestSnapshotIndex_EmpateDelMismoDiaGanaIDMayor(t *testing.T) {
	ix, err := inventory.NewSnapshotIndex([]*entity.InventorySnapshot{
		snapshot(7, "2024-01-10", count(arroz, "3")),
		snapshot(5, "2024-01-10", count(arroz, "9")),
	})
	require.NoError(t, err)

	s, ok := ix.At(day("2024-01-10"))
	require.True(t, ok)
	assert.Equal(t, int64(7), s.ID)

	qty, _ := ix.StockAt(arroz, day("2024-01-10"))
	assertDec(t, "3", qty)
}

func TestSnapshotIndex_Previous(t *testing.T) {
	ix, err := inventory.NewSnapshotIndex([]*entity.InventorySnapshot{
		snapshot(1, "2024-01-01"),
		snapshot(2, "2024-01-08"),
		snapshot(3, "2024-01-08"),
		snapshot(4, "2024-01-15"),
	})
	require.NoError(t, err)

	prev, ok := ix.Previous(4)
	require.True(t, ok)
	assert.Equal(t, int64(3), prev.ID, "el anterior es el más reciente de fecha estrictamente menor")

	prev, ok = ix.Previous(3)
	require.True(t, ok)
	assert.Equal(t, int64(1), prev.ID, "un inventario del mismo día no es el anterior")

	_, ok = ix.Previous(1)
	assert.False(t, ok)

	_, ok = ix.Previous(99)
	assert.False(t, ok)
}

func TestSnapshotIndex_RechazaLineasInvalidas(t *testing.T) {
	_, err := inventory.NewSnapshotIndex([]*entity.InventorySnapshot{
		snapshot(1, "2024-01-01", count(arroz, "1"), count(arroz, "2")),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "producto repetido no se fusiona")

	_, err = inventory.NewSnapshotIndex([]*entity.InventorySnapshot{
		snapshot(1, "2024-01-01", count(arroz, "-1")),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
