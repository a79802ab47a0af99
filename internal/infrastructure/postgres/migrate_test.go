package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateURL(t *testing.T) {
	got, err := migrateURL("postgres://cmv:secret@db:5432/cmv?sslmode=disable")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://cmv:secret@db:5432/cmv?sslmode=disable", got)

	got, err = migrateURL("postgresql://db/cmv")
	require.NoError(t, err)
	assert.Equal(t, "pgx5://db/cmv", got)

	_, err = migrateURL("mysql://db/cmv")
	assert.Error(t, err)
}

func TestMigrations_Embebidas(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	require.Len(t, entries, 2, "up y down del esquema inicial")
	assert.Equal(t, "000001_init_schema.down.sql", entries[0].Name())
	assert.Equal(t, "000001_init_schema.up.sql", entries[1].Name())
}

func TestDateArg_NormalizaAlDia(t *testing.T) {
	assert.Nil(t, dateArg(nil))

	ts := time.Date(2024, 3, 15, 18, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), dateArg(&ts))
}

func TestNullableID(t *testing.T) {
	assert.Nil(t, nullableID(0))
	assert.Equal(t, int64(7), nullableID(7))
}
