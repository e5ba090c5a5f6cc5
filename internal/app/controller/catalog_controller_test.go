package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type catalogFixture struct {
	categoryID uint
	teaTag     model.Tag
	candleTag  model.Tag
}

func setupCatalog(t *testing.T, app *testApp) catalogFixture {
	w := app.postJSON(http.MethodPost, "/api/admin/catalog", map[string]interface{}{
		"name":         "Gifts",
		"slug":         "gifts",
		"baseCategory": "GIFT",
		"heroTitle_zh": "精选礼品",
		"heroTitle_en": "Curated Gifts",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var category model.FrontCategory
	decode(t, w, &category)

	f := catalogFixture{
		categoryID: category.ID,
		teaTag:     model.Tag{Name: "Tea", Slug: "tea"},
		candleTag:  model.Tag{Name: "Candle", Slug: "candle"},
	}
	require.NoError(t, app.db.Create(&f.teaTag).Error)
	require.NoError(t, app.db.Create(&f.candleTag).Error)

	for _, p := range []map[string]interface{}{
		{"name": "Tea Tin Gift", "slug": "tea-tin", "category": "GIFT", "tagIds": []uint{f.teaTag.ID}},
		{"name": "Plain Mug", "slug": "plain-mug", "category": "GIFT"},
		{"name": "Rigid Box", "slug": "rigid-box", "category": "GIFT_BOX", "tagIds": []uint{f.teaTag.ID}},
		{"name": "Hidden Draft", "slug": "hidden-draft", "category": "GIFT", "status": "DRAFT"},
	} {
		w := app.postJSON(http.MethodPost, "/api/admin/products", p)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	return f
}

func TestCatalogController_UpdateGroupsLegacyArrays(t *testing.T) {
	app := setupTestApp(t)
	f := setupCatalog(t, app)
	path := fmt.Sprintf("/api/admin/catalog/%d/update-groups", f.categoryID)

	w := app.postForm(path, url.Values{
		"ids":          {"", "", ""},
		"labels":       {"Tea gifts", "", "Candles"},
		"descriptions": {"Loose leaf and tins", "", ""},
		"tagIds":       {strconv.Itoa(int(f.teaTag.ID)), strconv.Itoa(int(f.candleTag.ID)), strconv.Itoa(int(f.candleTag.ID))},
		"orders":       {"0", "1", "2"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var changes service.GroupChanges
	decode(t, w, &changes)
	assert.Equal(t, service.GroupChanges{Created: 2, Skipped: 1}, changes)

	var groups []model.FrontCategoryTagGroup
	require.NoError(t, app.db.Where("front_category_id = ?", f.categoryID).Order("sort_order").Find(&groups).Error)
	require.Len(t, groups, 2)
	assert.Equal(t, "Tea gifts", groups[0].Label)

	// blank label on an existing row leaves it alone; the flagged row goes
	w = app.postForm(path, url.Values{
		"ids":     {strconv.Itoa(int(groups[0].ID)), strconv.Itoa(int(groups[1].ID))},
		"labels":  {"", "Candles"},
		"tagIds":  {strconv.Itoa(int(f.teaTag.ID)), strconv.Itoa(int(f.candleTag.ID))},
		"deletes": {"", "1"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &changes)
	assert.Equal(t, service.GroupChanges{Deleted: 1, Skipped: 1}, changes)

	var remaining []model.FrontCategoryTagGroup
	require.NoError(t, app.db.Where("front_category_id = ?", f.categoryID).Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "Tea gifts", remaining[0].Label)
}

func TestCatalogController_UpdateGroupsJSON(t *testing.T) {
	app := setupTestApp(t)
	f := setupCatalog(t, app)

	w := app.postJSON(http.MethodPost, fmt.Sprintf("/api/admin/catalog/%d/update-groups", f.categoryID), map[string]interface{}{
		"rows": []service.TagGroupRow{{Label: "Tea gifts", TagID: f.teaTag.ID}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.postJSON(http.MethodPost, "/api/admin/catalog/9999/update-groups", map[string]interface{}{"rows": []service.TagGroupRow{}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSiteController_CatalogPage(t *testing.T) {
	app := setupTestApp(t)
	f := setupCatalog(t, app)

	w := app.postJSON(http.MethodPost, fmt.Sprintf("/api/admin/catalog/%d/update-groups", f.categoryID), map[string]interface{}{
		"rows": []service.TagGroupRow{{Label: "Tea gifts", TagID: f.teaTag.ID}},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.get("/catalog/gifts?lang=en")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Curated Gifts")
	assert.Contains(t, body, "Tea gifts")
	assert.Contains(t, body, "Tea Tin Gift")
	assert.Contains(t, body, "Plain Mug")
	assert.NotContains(t, body, "Rigid Box", "GIFT_BOX products are outside the base category")
	assert.NotContains(t, body, "Hidden Draft")

	assert.Equal(t, http.StatusNotFound, app.get("/catalog/missing").Code)
}
