package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/cache"
)

type TagController struct {
	tagService  service.TagService
	revalidator *cache.Revalidator
}

func NewTagController(tagService service.TagService, revalidator *cache.Revalidator) *TagController {
	return &TagController{tagService: tagService, revalidator: revalidator}
}

type TagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func bindTag(c *gin.Context) (service.TagInput, bool) {
	if isJSON(c) {
		var req TagRequest
		if !bindJSON(c, &req) {
			return service.TagInput{}, false
		}
		return service.TagInput{Name: req.Name, Slug: req.Slug}, true
	}
	return service.TagInput{Name: formString(c, "name"), Slug: formString(c, "slug")}, true
}

func (ctrl *TagController) changed(c *gin.Context, action string, id uint) {
	ctrl.revalidator.Changed(c.Request.Context(), cache.Change{
		Entity: "tag",
		Action: action,
		ID:     id,
		Paths:  cache.TagPaths,
	})
}

// List GET /api/admin/tags
func (ctrl *TagController) List(c *gin.Context) {
	tags, err := ctrl.tagService.List()
	if err != nil {
		respondError(c, err, "list tags")
		return
	}
	respondOK(c, http.StatusOK, tags)
}

// Create POST /api/admin/tags
func (ctrl *TagController) Create(c *gin.Context) {
	input, ok := bindTag(c)
	if !ok {
		return
	}
	tag, err := ctrl.tagService.Create(input)
	if err != nil {
		respondError(c, err, "create tag")
		return
	}
	ctrl.changed(c, "create", tag.ID)
	respondOK(c, http.StatusCreated, tag)
}

// Update PUT /api/admin/tags/:id
func (ctrl *TagController) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	input, ok := bindTag(c)
	if !ok {
		return
	}
	tag, err := ctrl.tagService.Update(id, input)
	if err != nil {
		respondError(c, err, "update tag")
		return
	}
	ctrl.changed(c, "update", tag.ID)
	respondOK(c, http.StatusOK, tag)
}

// Delete DELETE /api/admin/tags/:id
// Product links and catalog tag groups using the tag go with it.
func (ctrl *TagController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := ctrl.tagService.Delete(id); err != nil {
		respondError(c, err, "delete tag")
		return
	}
	ctrl.changed(c, "delete", id)
	respondOK(c, http.StatusOK, gin.H{"id": id})
}
