package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/cache"
	apperrors "github.com/hengyuan-pack/giftbox-site/internal/errors"
)

type SectionController struct {
	sectionService service.SectionService
	revalidator    *cache.Revalidator
}

func NewSectionController(sectionService service.SectionService, revalidator *cache.Revalidator) *SectionController {
	return &SectionController{
		sectionService: sectionService,
		revalidator:    revalidator,
	}
}

type SectionRequest struct {
	Type    string          `json:"type"`
	Order   *int            `json:"order"`
	Enabled *bool           `json:"enabled"`
	Payload json.RawMessage `json:"payload"`
}

func bindSection(c *gin.Context, existing *model.HomeSection) (service.SectionInput, bool) {
	enabled := true
	if existing != nil {
		enabled = existing.Enabled
	}

	if isJSON(c) {
		var req SectionRequest
		if !bindJSON(c, &req) {
			return service.SectionInput{}, false
		}
		if req.Enabled != nil {
			enabled = *req.Enabled
		}
		return service.SectionInput{
			Type:    req.Type,
			Order:   req.Order,
			Enabled: enabled,
			Payload: req.Payload,
		}, true
	}

	return service.SectionInput{
		Type:    formString(c, "type"),
		Order:   formIntPtr(c, "order"),
		Enabled: formBoolDefault(c, "enabled", enabled),
		Payload: formJSON(c, "payload"),
	}, true
}

func (ctrl *SectionController) changed(c *gin.Context, action string, id uint) {
	ctrl.revalidator.Changed(c.Request.Context(), cache.Change{
		Entity: "section",
		Action: action,
		ID:     id,
		Paths:  cache.SectionPaths,
	})
}

// List GET /api/admin/sections
func (ctrl *SectionController) List(c *gin.Context) {
	sections, err := ctrl.sectionService.List()
	if err != nil {
		respondError(c, err, "list sections")
		return
	}
	respondOK(c, http.StatusOK, sections)
}

// Create POST /api/admin/sections
func (ctrl *SectionController) Create(c *gin.Context) {
	input, ok := bindSection(c, nil)
	if !ok {
		return
	}
	section, err := ctrl.sectionService.Create(input)
	if err != nil {
		respondError(c, err, "create section")
		return
	}
	ctrl.changed(c, "create", section.ID)
	respondOK(c, http.StatusCreated, section)
}

// Update PUT /api/admin/sections/:id
func (ctrl *SectionController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	existing, err := ctrl.sectionService.GetByID(id)
	if err != nil {
		respondError(c, err, "update section")
		return
	}
	input, ok := bindSection(c, existing)
	if !ok {
		return
	}
	section, err := ctrl.sectionService.Update(id, input)
	if err != nil {
		respondError(c, err, "update section")
		return
	}
	ctrl.changed(c, "update", section.ID)
	respondOK(c, http.StatusOK, section)
}

// Delete DELETE /api/admin/sections/:id
func (ctrl *SectionController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.sectionService.Delete(id); err != nil {
		respondError(c, err, "delete section")
		return
	}
	ctrl.changed(c, "delete", id)
	respondOK(c, http.StatusOK, gin.H{"id": id})
}

// Toggle POST /api/admin/sections/:id/toggle
func (ctrl *SectionController) Toggle(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	section, err := ctrl.sectionService.Toggle(id)
	if err != nil {
		respondError(c, err, "toggle section")
		return
	}
	ctrl.changed(c, "toggle", section.ID)
	respondOK(c, http.StatusOK, section)
}

type reorderRequest struct {
	IDs []uint `json:"ids"`
}

// Reorder POST /api/admin/sections/reorder
func (ctrl *SectionController) Reorder(c *gin.Context) {
	var ids []uint
	if isJSON(c) {
		var req reorderRequest
		if !bindJSON(c, &req) {
			return
		}
		ids = req.IDs
	} else {
		ids = formIDs(c, "ids")
	}
	if len(ids) == 0 {
		respondBadRequest(c, apperrors.ValidationRequired, "ids is required")
		return
	}

	if err := ctrl.sectionService.Reorder(ids); err != nil {
		respondError(c, err, "reorder sections")
		return
	}
	ctrl.changed(c, "reorder", 0)

	sections, err := ctrl.sectionService.List()
	if err != nil {
		respondError(c, err, "list sections")
		return
	}
	respondOK(c, http.StatusOK, sections)
}
