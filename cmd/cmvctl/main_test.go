package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rt := &runtime{out: &out}
	err := newApp(rt).Run(append([]string{"cmvctl", "--storage", "memory"}, args...))
	return out.String(), err
}

func TestCMV_AlmacenVacio(t *testing.T) {
	out, err := run(t, "cmv", "--start", "2024-01-01", "--end", "2024-01-31")
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &body))
	assert.EqualValues(t, 0, body["total_cmv"], "montos como número JSON")
	assert.Equal(t, true, body["missing_initial_baseline"])
}

func TestCMV_RangoInvertido(t *testing.T) {
	_, err := run(t, "cmv", "--start", "2024-02-01", "--end", "2024-01-01")
	assert.Error(t, err)
}

func TestCMV_PDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cmv.pdf")

	_, err := run(t, "cmv", "--start", "2024-01-01", "--end", "2024-01-31", "--pdf", path)
	require.NoError(t, err)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
}

func TestSuggest_InventarioInexistente(t *testing.T) {
	_, err := run(t, "suggest", "--inventory-id", "7")
	assert.Error(t, err)
}

func TestMigrate_RequierePostgres(t *testing.T) {
	_, err := run(t, "migrate", "up")
	assert.ErrorContains(t, err, "STORAGE_DRIVER=postgres")
}
