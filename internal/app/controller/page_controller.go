package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/cache"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
)

type PageController struct {
	pageService service.PageService
	revalidator *cache.Revalidator
}

func NewPageController(pageService service.PageService, revalidator *cache.Revalidator) *PageController {
	return &PageController{
		pageService: pageService,
		revalidator: revalidator,
	}
}

type PageRequest struct {
	Slug       string          `json:"slug"`
	Type       string          `json:"type"`
	IsEnabled  *bool           `json:"isEnabled"`
	ShowInNav  *bool           `json:"showInNav"`
	Order      *int            `json:"order"`
	NavLabelZh string          `json:"navLabel_zh"`
	NavLabelEn string          `json:"navLabel_en"`
	LabelZh    string          `json:"label_zh"`
	LabelEn    string          `json:"label_en"`
	TitleZh    string          `json:"title_zh"`
	TitleEn    string          `json:"title_en"`
	DescZh     string          `json:"desc_zh"`
	DescEn     string          `json:"desc_en"`
	PageData   json.RawMessage `json:"pageData"`
}

// bindPage reads a page from JSON or form fields. Missing flags keep the
// values of existing, or the create defaults when existing is nil; a
// missing order or pageData keeps the stored value.
func bindPage(c *gin.Context, existing *model.SitePage) (service.PageInput, bool) {
	enabled, nav := true, false
	if existing != nil {
		enabled, nav = existing.IsEnabled, existing.ShowInNav
	}

	if isJSON(c) {
		var req PageRequest
		if !bindJSON(c, &req) {
			return service.PageInput{}, false
		}
		if req.IsEnabled != nil {
			enabled = *req.IsEnabled
		}
		if req.ShowInNav != nil {
			nav = *req.ShowInNav
		}
		return service.PageInput{
			Slug:       req.Slug,
			Type:       req.Type,
			IsEnabled:  enabled,
			ShowInNav:  nav,
			Order:      req.Order,
			NavLabelZh: req.NavLabelZh,
			NavLabelEn: req.NavLabelEn,
			LabelZh:    req.LabelZh,
			LabelEn:    req.LabelEn,
			TitleZh:    req.TitleZh,
			TitleEn:    req.TitleEn,
			DescZh:     req.DescZh,
			DescEn:     req.DescEn,
			PageData:   req.PageData,
		}, true
	}

	return service.PageInput{
		Slug:       formString(c, "slug"),
		Type:       formString(c, "type"),
		IsEnabled:  formBoolDefault(c, "isEnabled", enabled),
		ShowInNav:  formBoolDefault(c, "showInNav", nav),
		Order:      formIntPtr(c, "order"),
		NavLabelZh: formString(c, "navLabel_zh"),
		NavLabelEn: formString(c, "navLabel_en"),
		LabelZh:    formString(c, "label_zh"),
		LabelEn:    formString(c, "label_en"),
		TitleZh:    formString(c, "title_zh"),
		TitleEn:    formString(c, "title_en"),
		DescZh:     formString(c, "desc_zh"),
		DescEn:     formString(c, "desc_en"),
		PageData:   formJSON(c, "pageData"),
	}, true
}

func (ctrl *PageController) changed(c *gin.Context, action string, id uint) {
	ctrl.revalidator.Changed(c.Request.Context(), cache.Change{
		Entity: "page",
		Action: action,
		ID:     id,
		Paths:  cache.PagePaths,
	})
}

// List GET /api/admin/pages
func (ctrl *PageController) List(c *gin.Context) {
	pages, err := ctrl.pageService.List()
	if err != nil {
		respondError(c, err, "list pages")
		return
	}
	respondOK(c, http.StatusOK, pages)
}

// Get GET /api/admin/pages/:id
func (ctrl *PageController) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	page, err := ctrl.pageService.GetByID(id)
	if err != nil {
		respondError(c, err, "get page")
		return
	}
	respondOK(c, http.StatusOK, page)
}

// Create POST /api/admin/pages
func (ctrl *PageController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input, ok := bindPage(c, nil)
	if !ok {
		return
	}
	page, err := ctrl.pageService.Create(input)
	if err != nil {
		respondError(c, err, "create page")
		return
	}

	log.Info("Page created", map[string]interface{}{
		"page_id": page.ID,
		"slug":    page.Slug,
		"admin":   middleware.GetAdminUser(c),
	})
	ctrl.changed(c, "create", page.ID)
	respondOK(c, http.StatusCreated, page)
}

// Update PUT /api/admin/pages/:id
func (ctrl *PageController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	existing, err := ctrl.pageService.GetByID(id)
	if err != nil {
		respondError(c, err, "update page")
		return
	}
	input, ok := bindPage(c, existing)
	if !ok {
		return
	}
	page, err := ctrl.pageService.Update(id, input)
	if err != nil {
		respondError(c, err, "update page")
		return
	}
	ctrl.changed(c, "update", page.ID)
	respondOK(c, http.StatusOK, page)
}

// Delete DELETE /api/admin/pages/:id
func (ctrl *PageController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.pageService.Delete(id); err != nil {
		respondError(c, err, "delete page")
		return
	}
	ctrl.changed(c, "delete", id)
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

type toggleRequest struct {
	Field string `json:"field"`
}

// Toggle POST /api/admin/pages/:id/toggle
func (ctrl *PageController) Toggle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	field := formString(c, "field")
	if isJSON(c) {
		var req toggleRequest
		if !bindJSON(c, &req) {
			return
		}
		field = req.Field
	}
	page, err := ctrl.pageService.Toggle(id, service.PageToggle(field))
	if err != nil {
		respondError(c, err, "toggle page")
		return
	}
	ctrl.changed(c, "toggle", page.ID)
	respondOK(c, http.StatusOK, page)
}

type moveRequest struct {
	Direction string `json:"direction"`
}

// Move POST /api/admin/pages/:id/move
func (ctrl *PageController) Move(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	direction := formString(c, "direction")
	if isJSON(c) {
		var req moveRequest
		if !bindJSON(c, &req) {
			return
		}
		direction = req.Direction
	}
	page, err := ctrl.pageService.Move(id, service.MoveDirection(direction))
	if err != nil {
		respondError(c, err, "move page")
		return
	}
	ctrl.changed(c, "move", page.ID)
	respondOK(c, http.StatusOK, page)
}
