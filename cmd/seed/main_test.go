package main

import (
	"path/filepath"
	"testing"

	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellName, &row))
	}
	path := filepath.Join(t.TempDir(), "products.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadProductsFromXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"Tags", "name", "category", "minQty", "priceHint", "currency"},
		{"Tea, Festive", "Tea Gift Box", "gift_box", "500", "3.5", "usd"},
		{"", "", "GIFT"},
		{"", "Mug", "", "abc", "", ""},
	})

	rows, err := readProductsFromXLSX(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Tea Gift Box", rows[0].input.Name)
	assert.Equal(t, "gift_box", rows[0].input.Category)
	require.NotNil(t, rows[0].input.MinQty)
	assert.Equal(t, 500, *rows[0].input.MinQty)
	require.NotNil(t, rows[0].input.PriceHint)
	assert.InDelta(t, 3.5, *rows[0].input.PriceHint, 0.0001)
	assert.Equal(t, []string{"Tea", "Festive"}, rows[0].tagNames)

	assert.Equal(t, "GIFT", rows[1].input.Category)
	assert.Nil(t, rows[1].input.MinQty)
	assert.Equal(t, 4, rows[1].line)
}

func TestReadProductsFromXLSX_MissingNameColumn(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"title", "category"},
		{"Tea Gift Box", "GIFT"},
	})
	_, err := readProductsFromXLSX(path)
	assert.Error(t, err)
}

func TestImportProducts(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	path := writeWorkbook(t, [][]interface{}{
		{"name", "slug", "category", "tags"},
		{"Tea Gift Box", "tea-box", "GIFT_BOX", "Tea, Festive"},
		{"Festive Candle", "", "GIFT", "festive"},
		{"Broken", "", "NOT_A_CATEGORY", ""},
	})

	require.NoError(t, importProducts(testDB, path))

	products, err := repository.NewProductRepository(testDB).FindWithFilter(repository.ProductFilter{})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	tags, err := repository.NewTagRepository(testDB).FindAll()
	require.NoError(t, err)
	assert.Len(t, tags, 2, "tag names resolve by slug, so festive and Festive are one tag")
}
