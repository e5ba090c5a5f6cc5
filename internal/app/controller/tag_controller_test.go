package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	apperrors "github.com/hengyuan-pack/giftbox-site/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagController_CRUD(t *testing.T) {
	app := setupTestApp(t)

	w := app.postJSON(http.MethodPost, "/api/admin/tags", map[string]string{"name": "Mid Autumn"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var tag model.Tag
	decode(t, w, &tag)
	assert.Equal(t, "mid-autumn", tag.Slug)

	w = app.postJSON(http.MethodPost, "/api/admin/tags", map[string]string{"name": "Mid-Autumn"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = app.postJSON(http.MethodPost, "/api/admin/tags", map[string]string{"name": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidInput, decode(t, w, nil).Code)

	w = app.postJSON(http.MethodPut, fmt.Sprintf("/api/admin/tags/%d", tag.ID), map[string]string{"name": "Moon Festival"})
	require.Equal(t, http.StatusOK, w.Code)
	var renamed model.Tag
	decode(t, w, &renamed)
	assert.Equal(t, "Moon Festival", renamed.Name)
	assert.Equal(t, "mid-autumn", renamed.Slug)

	w = app.postJSON(http.MethodPut, fmt.Sprintf("/api/admin/tags/%d", tag.ID), map[string]string{"name": "Moon", "slug": "Not A Slug"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.get("/api/admin/tags")
	var tags []model.Tag
	decode(t, w, &tags)
	assert.Len(t, tags, 1)
}

func TestTagController_DeleteDetachesProducts(t *testing.T) {
	app := setupTestApp(t)
	tag := model.Tag{Name: "Festive", Slug: "festive"}
	require.NoError(t, app.db.Create(&tag).Error)
	product := createProduct(t, app, map[string]interface{}{
		"name":     "Lantern Box",
		"category": "GIFT_BOX",
		"tagIds":   []uint{tag.ID},
	})
	require.Len(t, product.Tags, 1)

	w := app.do(newRequest(http.MethodDelete, fmt.Sprintf("/api/admin/tags/%d", tag.ID)))
	require.Equal(t, http.StatusOK, w.Code)

	w = app.get(fmt.Sprintf("/api/admin/products/%d", product.ID))
	require.Equal(t, http.StatusOK, w.Code)
	var fetched model.Product
	decode(t, w, &fetched)
	assert.Empty(t, fetched.Tags)

	w = app.do(newRequest(http.MethodDelete, fmt.Sprintf("/api/admin/tags/%d", tag.ID)))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
