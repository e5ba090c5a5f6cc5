package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/cache"
	apperrors "github.com/hengyuan-pack/giftbox-site/internal/errors"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
)

type CatalogController struct {
	catalogService service.CatalogService
	revalidator    *cache.Revalidator
}

func NewCatalogController(catalogService service.CatalogService, revalidator *cache.Revalidator) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
		revalidator:    revalidator,
	}
}

type CategoryRequest struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	BaseCategory string `json:"baseCategory"`
	Order        int    `json:"order"`
	IsActive     *bool  `json:"isActive"`
	HeroTitleZh  string `json:"heroTitle_zh"`
	HeroTitleEn  string `json:"heroTitle_en"`
	HeroDescZh   string `json:"heroDesc_zh"`
	HeroDescEn   string `json:"heroDesc_en"`
	HeroImage    string `json:"heroImage"`
	CardTitleZh  string `json:"cardTitle_zh"`
	CardTitleEn  string `json:"cardTitle_en"`
	CardDescZh   string `json:"cardDesc_zh"`
	CardDescEn   string `json:"cardDesc_en"`
	CardImage    string `json:"cardImage"`
}

func bindCategory(c *gin.Context, activeDefault bool) (service.CategoryInput, bool) {
	if isJSON(c) {
		var req CategoryRequest
		if !bindJSON(c, &req) {
			return service.CategoryInput{}, false
		}
		active := activeDefault
		if req.IsActive != nil {
			active = *req.IsActive
		}
		return service.CategoryInput{
			Name:         req.Name,
			Slug:         req.Slug,
			BaseCategory: req.BaseCategory,
			Order:        req.Order,
			IsActive:     active,
			HeroTitleZh:  req.HeroTitleZh,
			HeroTitleEn:  req.HeroTitleEn,
			HeroDescZh:   req.HeroDescZh,
			HeroDescEn:   req.HeroDescEn,
			HeroImage:    req.HeroImage,
			CardTitleZh:  req.CardTitleZh,
			CardTitleEn:  req.CardTitleEn,
			CardDescZh:   req.CardDescZh,
			CardDescEn:   req.CardDescEn,
			CardImage:    req.CardImage,
		}, true
	}

	return service.CategoryInput{
		Name:         formString(c, "name"),
		Slug:         formString(c, "slug"),
		BaseCategory: formString(c, "baseCategory"),
		Order:        formInt(c, "order", 0),
		IsActive:     formBoolDefault(c, "isActive", activeDefault),
		HeroTitleZh:  formString(c, "heroTitle_zh"),
		HeroTitleEn:  formString(c, "heroTitle_en"),
		HeroDescZh:   c.PostForm("heroDesc_zh"),
		HeroDescEn:   c.PostForm("heroDesc_en"),
		HeroImage:    formString(c, "heroImage"),
		CardTitleZh:  formString(c, "cardTitle_zh"),
		CardTitleEn:  formString(c, "cardTitle_en"),
		CardDescZh:   c.PostForm("cardDesc_zh"),
		CardDescEn:   c.PostForm("cardDesc_en"),
		CardImage:    formString(c, "cardImage"),
	}, true
}

func (ctrl *CatalogController) changed(c *gin.Context, action string, id uint) {
	ctrl.revalidator.Changed(c.Request.Context(), cache.Change{
		Entity: "catalog",
		Action: action,
		ID:     id,
		Paths:  cache.CatalogPaths,
	})
}

// List GET /api/admin/catalog
func (ctrl *CatalogController) List(c *gin.Context) {
	categories, err := ctrl.catalogService.List(false)
	if err != nil {
		respondError(c, err, "list catalog categories")
		return
	}
	respondOK(c, http.StatusOK, categories)
}

// Get GET /api/admin/catalog/:id
func (ctrl *CatalogController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	category, err := ctrl.catalogService.GetByID(id)
	if err != nil {
		respondError(c, err, "get catalog category")
		return
	}
	respondOK(c, http.StatusOK, category)
}

// Create POST /api/admin/catalog
func (ctrl *CatalogController) Create(c *gin.Context) {
	input, ok := bindCategory(c, true)
	if !ok {
		return
	}
	category, err := ctrl.catalogService.Create(input)
	if err != nil {
		respondError(c, err, "create catalog category")
		return
	}
	ctrl.changed(c, "create", category.ID)
	respondOK(c, http.StatusCreated, category)
}

// Update PUT /api/admin/catalog/:id
func (ctrl *CatalogController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	existing, err := ctrl.catalogService.GetByID(id)
	if err != nil {
		respondError(c, err, "update catalog category")
		return
	}
	input, ok := bindCategory(c, existing.IsActive)
	if !ok {
		return
	}
	category, err := ctrl.catalogService.Update(id, input)
	if err != nil {
		respondError(c, err, "update catalog category")
		return
	}
	ctrl.changed(c, "update", category.ID)
	respondOK(c, http.StatusOK, category)
}

// Delete DELETE /api/admin/catalog/:id
func (ctrl *CatalogController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.catalogService.Delete(id); err != nil {
		respondError(c, err, "delete catalog category")
		return
	}
	ctrl.changed(c, "delete", id)
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

type updateGroupsRequest struct {
	Rows []service.TagGroupRow `json:"rows"`
}

// bindGroupRows accepts {"rows": [...]} as JSON, a serialized rows form
// field, or the positional ids/labels/descriptions/tagIds/orders/deletes arrays.
func bindGroupRows(c *gin.Context) ([]service.TagGroupRow, bool) {
	if isJSON(c) {
		var req updateGroupsRequest
		if !bindJSON(c, &req) {
			return nil, false
		}
		return req.Rows, true
	}

	if raw := formString(c, "rows"); raw != "" {
		var rows []service.TagGroupRow
		if err := json.Unmarshal([]byte(raw), &rows); err != nil {
			respondBadRequest(c, apperrors.ValidationInvalidFormat, "rows must be a JSON array")
			return nil, false
		}
		return rows, true
	}

	return service.ZipGroupRows(
		formArray(c, "ids"),
		formArray(c, "labels"),
		formArray(c, "descriptions"),
		formArray(c, "tagIds"),
		formArray(c, "orders"),
		formArray(c, "deletes"),
	), true
}

// UpdateGroups POST /api/admin/catalog/:id/update-groups
func (ctrl *CatalogController) UpdateGroups(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseID(c)
	if !ok {
		return
	}
	rows, ok := bindGroupRows(c)
	if !ok {
		return
	}

	changes, err := ctrl.catalogService.UpdateGroups(id, rows)
	if err != nil {
		respondError(c, err, "update tag groups")
		return
	}

	log.Info("Catalog tag groups reconciled", map[string]interface{}{
		"category_id": id,
		"created":     changes.Created,
		"updated":     changes.Updated,
		"deleted":     changes.Deleted,
		"skipped":     changes.Skipped,
	})
	ctrl.changed(c, "update-groups", id)
	respondOK(c, http.StatusOK, changes)
}
