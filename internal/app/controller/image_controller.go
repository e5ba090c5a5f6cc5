package controller

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/cache"
	apperrors "github.com/hengyuan-pack/giftbox-site/internal/errors"
	"github.com/hengyuan-pack/giftbox-site/internal/metrics"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
)

type ImageController struct {
	imageService service.ImageService
	revalidator  *cache.Revalidator
}

func NewImageController(imageService service.ImageService, revalidator *cache.Revalidator) *ImageController {
	return &ImageController{
		imageService: imageService,
		revalidator:  revalidator,
	}
}

func (ctrl *ImageController) changed(c *gin.Context, action string, id uint) {
	ctrl.revalidator.Changed(c.Request.Context(), cache.Change{
		Entity: "image",
		Action: action,
		ID:     id,
	})
}

// List GET /api/admin/images?includeDeleted=1
func (ctrl *ImageController) List(c *gin.Context) {
	images, err := ctrl.imageService.List(truthy(c.Query("includeDeleted")))
	if err != nil {
		respondError(c, err, "list images")
		return
	}
	respondOK(c, http.StatusOK, images)
}

// Upload POST /api/admin/images/upload (multipart: file, label)
func (ctrl *ImageController) Upload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, service.ErrFileTooLarge, "upload image")
			return
		}
		respondBadRequest(c, apperrors.UploadMissingFile, "A file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err, "upload image")
		return
	}
	defer file.Close()

	asset, err := ctrl.imageService.Upload(c.Request.Context(), service.UploadInput{
		Filename:    filepath.Base(fileHeader.Filename),
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
		Label:       strings.TrimSpace(c.PostForm("label")),
	})
	if err != nil {
		respondError(c, err, "upload image")
		return
	}

	metrics.RecordUpload(asset.Size)
	log.Info("Image uploaded", map[string]interface{}{
		"image_id": asset.ID,
		"key":      asset.StorageKey,
		"size":     asset.Size,
	})
	ctrl.changed(c, "upload", asset.ID)
	respondOK(c, http.StatusCreated, asset)
}

// Delete POST /api/admin/images/:id/delete
// The blob stays in the object store.
func (ctrl *ImageController) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	asset, err := ctrl.imageService.SoftDelete(id)
	if err != nil {
		respondError(c, err, "delete image")
		return
	}
	ctrl.changed(c, "delete", id)
	respondOK(c, http.StatusOK, asset)
}

// Restore POST /api/admin/images/:id/restore
func (ctrl *ImageController) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	asset, err := ctrl.imageService.Restore(id)
	if err != nil {
		respondError(c, err, "restore image")
		return
	}
	ctrl.changed(c, "restore", id)
	respondOK(c, http.StatusOK, asset)
}

// Storage GET /api/admin/images/storage?prefix=
func (ctrl *ImageController) Storage(c *gin.Context) {
	objects, err := ctrl.imageService.ListStorage(c.Request.Context(), c.Query("prefix"))
	if err != nil {
		respondError(c, err, "list storage")
		return
	}
	respondOK(c, http.StatusOK, objects)
}
