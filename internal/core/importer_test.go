package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhenrique21/cotarpecas/internal/store"
)

func testSupplier(t *testing.T, dbStore store.Store) *store.User {
	t.Helper()
	user, err := dbStore.CreateUser("Bruno", "bruno@pecas.com.br", "hash", store.RoleSupplier, "Bruno Auto Parts")
	require.NoError(t, err)
	return user
}

func TestImportProductsCSV(t *testing.T) {
	dbStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	supplier := testSupplier(t, dbStore)

	csvBody := "part_name,make,model,brand,price,stock\n" +
		"Pastilha de Freio,Fiat,Palio,Bosch,120.00,10\n" +
		"\n"

	count, err := ImportProductsCSV(dbStore, supplier, strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	products, err := dbStore.GetSupplierProducts(supplier.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Pastilha de Freio", p.PartName)
	assert.Equal(t, "Fiat", p.Make)
	assert.Equal(t, "Palio", p.Model)
	assert.Equal(t, "Bosch", p.Brand)
	assert.Equal(t, 120.00, p.Price)
	assert.Equal(t, 10, p.Stock)
	assert.Equal(t, "Bruno Auto Parts", p.SupplierName)
}

func TestImportProductsCSVSkipsMalformedRows(t *testing.T) {
	dbStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	supplier := testSupplier(t, dbStore)

	csvBody := "part_name,make,model,brand,price,stock\n" +
		"incompleta,linha\n" +
		"Filtro de Ar,VW,Gol,Mann,45.90,3\n" +
		"Vela de Ignição,Fiat,Uno,NGK,preço-inválido,2\n"

	count, err := ImportProductsCSV(dbStore, supplier, strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	products, err := dbStore.GetSupplierProducts(supplier.ID)
	require.NoError(t, err)
	require.Len(t, products, 2)

	byName := map[string]store.Product{}
	for _, p := range products {
		byName[p.PartName] = p
	}
	assert.Equal(t, 45.90, byName["Filtro de Ar"].Price)
	// Unparseable price falls back to 0 but the row still imports.
	assert.Zero(t, byName["Vela de Ignição"].Price)
	assert.Equal(t, 2, byName["Vela de Ignição"].Stock)
}

func TestImportProductsCSVMissingStockDefaultsToOne(t *testing.T) {
	dbStore, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)
	supplier := testSupplier(t, dbStore)

	csvBody := "part_name,make,model,brand,price\n" +
		"Radiador,Ford,Ka,Valeo,310.00\n"

	count, err := ImportProductsCSV(dbStore, supplier, strings.NewReader(csvBody))
	require.NoError(t, err)
	require.Equal(t, 1, count)

	products, err := dbStore.GetSupplierProducts(supplier.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].Stock)
}
