package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	apperrors "github.com/hengyuan-pack/giftbox-site/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProduct(t *testing.T, app *testApp, body map[string]interface{}) model.Product {
	w := app.postJSON(http.MethodPost, "/api/admin/products", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product model.Product
	decode(t, w, &product)
	return product
}

func TestProductController_CreateWithTagsAndImages(t *testing.T) {
	app := setupTestApp(t)
	tag := model.Tag{Name: "Festive", Slug: "festive"}
	require.NoError(t, app.db.Create(&tag).Error)

	product := createProduct(t, app, map[string]interface{}{
		"name":     "Moon Cake Box",
		"category": "gift_box",
		"minQty":   500,
		"currency": "usd",
		"images":   []string{" https://cdn.example.com/a.jpg ", "", "https://cdn.example.com/b.jpg"},
		"tagIds":   []uint{tag.ID, tag.ID},
	})

	assert.Equal(t, "moon-cake-box", product.Slug)
	assert.Equal(t, model.CategoryGiftBox, product.Category)
	assert.Equal(t, model.StatusActive, product.Status)
	assert.Equal(t, "USD", product.Currency)
	assert.Equal(t, "https://cdn.example.com/a.jpg", product.CoverImage)
	assert.Len(t, product.Images, 2)
	require.Len(t, product.Tags, 1)
	assert.Equal(t, "festive", product.Tags[0].Slug)

	w := app.get(fmt.Sprintf("/api/admin/products/%d", product.ID))
	require.Equal(t, http.StatusOK, w.Code)
	var fetched model.Product
	decode(t, w, &fetched)
	require.NotNil(t, fetched.MinQty)
	assert.Equal(t, 500, *fetched.MinQty)
}

func TestProductController_CreateRejects(t *testing.T) {
	app := setupTestApp(t)
	createProduct(t, app, map[string]interface{}{"name": "Tea Tin", "category": "GIFT"})

	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
		code   string
	}{
		{"missing name", map[string]interface{}{"category": "GIFT"}, http.StatusBadRequest, apperrors.ValidationInvalidInput},
		{"bad category", map[string]interface{}{"name": "Cup", "category": "TOY"}, http.StatusBadRequest, apperrors.ValidationInvalidEnum},
		{"bad status", map[string]interface{}{"name": "Cup", "category": "GIFT", "status": "LIVE"}, http.StatusBadRequest, apperrors.ValidationInvalidEnum},
		{"duplicate slug", map[string]interface{}{"name": "Tea Tin", "category": "GIFT"}, http.StatusConflict, apperrors.ProductSlugTaken},
		{"unknown tag", map[string]interface{}{"name": "Cup", "category": "GIFT", "tagIds": []uint{404}}, http.StatusNotFound, apperrors.TagNotFound},
		{"unknown set item", map[string]interface{}{
			"name":         "Set",
			"category":     "GIFT_SET",
			"giftSetItems": []map[string]int{{"productId": 9999, "quantity": 1}},
		}, http.StatusBadRequest, apperrors.ValidationInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.postJSON(http.MethodPost, "/api/admin/products", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			env := decode(t, w, nil)
			assert.False(t, env.OK)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestProductController_GiftSetFromForm(t *testing.T) {
	app := setupTestApp(t)
	tin := createProduct(t, app, map[string]interface{}{"name": "Tea Tin", "category": "GIFT"})
	cup := createProduct(t, app, map[string]interface{}{"name": "Cup", "category": "GIFT"})

	w := app.postForm("/api/admin/products", url.Values{
		"name":             {"Tea Set"},
		"category":         {"GIFT_SET"},
		"itemProductIds[]": {jsonID(tin.ID), jsonID(cup.ID), jsonID(tin.ID)},
		"itemQuantities[]": {"1", "x", "2"},
		"_redirect":        {"/admin?tab=products"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin?tab=products", w.Header().Get("Location"))

	var set model.Product
	require.NoError(t, app.db.Preload("GiftSet.Items").Where("slug = ?", "tea-set").First(&set).Error)
	require.NotNil(t, set.GiftSet)
	require.Len(t, set.GiftSet.Items, 2)
	quantities := map[uint]int{}
	for _, item := range set.GiftSet.Items {
		quantities[item.ProductID] = item.Quantity
	}
	assert.Equal(t, 3, quantities[tin.ID])
	assert.Equal(t, 1, quantities[cup.ID])

	// a set cannot contain itself
	w = app.postJSON(http.MethodPut, fmt.Sprintf("/api/admin/products/%d", set.ID), map[string]interface{}{
		"name":         "Tea Set",
		"category":     "GIFT_SET",
		"giftSetItems": []map[string]uint{{"productId": set.ID, "quantity": 1}},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductController_ListAndDelete(t *testing.T) {
	app := setupTestApp(t)
	box := createProduct(t, app, map[string]interface{}{"name": "Wine Box", "category": "GIFT_BOX", "sku": "WB-01"})
	createProduct(t, app, map[string]interface{}{"name": "Pen", "category": "GIFT", "status": "DRAFT"})

	var products []model.Product
	w := app.get("/api/admin/products?category=gift_box")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, box.ID, products[0].ID)

	w = app.get("/api/admin/products?status=DRAFT")
	decode(t, w, &products)
	require.Len(t, products, 1)
	assert.Equal(t, "Pen", products[0].Name)

	w = app.get("/api/admin/products?q=WB-")
	decode(t, w, &products)
	require.Len(t, products, 1)

	w = app.get("/api/admin/products?category=toys")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(newRequest(http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", box.ID)))
	require.Equal(t, http.StatusOK, w.Code)

	w = app.get(fmt.Sprintf("/api/admin/products/%d", box.ID))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ProductNotFound, decode(t, w, nil).Code)

	w = app.do(newRequest(http.MethodDelete, fmt.Sprintf("/api/admin/products/%d", box.ID)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductController_UpdateInvalidatesProductPages(t *testing.T) {
	app := setupTestApp(t)
	product := createProduct(t, app, map[string]interface{}{"name": "Candle Box", "category": "GIFT_BOX"})

	w := app.get("/products/candle-box")
	require.Equal(t, http.StatusOK, w.Code)
	w = app.get("/products/candle-box")
	assert.Equal(t, "hit", w.Header().Get("X-Render-Cache"))

	w = app.postJSON(http.MethodPut, fmt.Sprintf("/api/admin/products/%d", product.ID), map[string]interface{}{
		"name":      "Candle Box",
		"category":  "GIFT_BOX",
		"shortDesc": "Soy wax, hand poured",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = app.get("/products/candle-box")
	assert.Equal(t, "miss", w.Header().Get("X-Render-Cache"))
	assert.Contains(t, w.Body.String(), "Soy wax, hand poured")
}

type failingImageRepo struct {
	repository.ProductRepository
}

func (failingImageRepo) UpdateImages(uint, string, []string) error {
	return errors.New("connection reset")
}

func TestProductController_CreateWarnsWhenImagesFail(t *testing.T) {
	app := setupTestAppWith(t, func(repo repository.ProductRepository) repository.ProductRepository {
		return failingImageRepo{repo}
	})

	w := app.postJSON(http.MethodPost, "/api/admin/products", map[string]interface{}{
		"name":     "Velvet Box",
		"category": "GIFT_BOX",
		"images":   []string{"https://cdn.example.com/v.jpg"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product model.Product
	env := decode(t, w, &product)
	assert.True(t, env.OK)
	assert.Equal(t, service.ErrProductImageLinkFail.Error(), env.Warning)
	assert.Equal(t, "velvet-box", product.Slug)

	w = app.get(fmt.Sprintf("/api/admin/products/%d", product.ID))
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.postForm("/api/admin/products", url.Values{
		"name":      {"Silk Box"},
		"category":  {"GIFT_BOX"},
		"images":    {"https://cdn.example.com/s.jpg"},
		"_redirect": {"/admin?tab=products"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/admin", location.Path)
	assert.Equal(t, "products", location.Query().Get("tab"))
	assert.Equal(t, service.ErrProductImageLinkFail.Error(), location.Query().Get("warning"))

	var stored model.Product
	require.NoError(t, app.db.Where("slug = ?", "silk-box").First(&stored).Error)
}
