package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/internal/storage"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrImageNotFound    = errors.New("image not found")
	ErrEmptyUpload      = errors.New("uploaded file is empty")
	ErrFileTooLarge     = errors.New("file exceeds the upload limit")
	ErrInvalidImageType = errors.New("only image files can be uploaded")
)

const (
	MaxImageSize = 10 << 20
	uploadPrefix = "uploads/"
)

var allowedImageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"image/svg+xml",
	"image/avif",
}

type UploadInput struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Label       string
}

type ImageService interface {
	Upload(ctx context.Context, input UploadInput) (*model.ImageAsset, error)
	List(includeDeleted bool) ([]model.ImageAsset, error)
	SoftDelete(id uint) (*model.ImageAsset, error)
	Restore(id uint) (*model.ImageAsset, error)
	ListStorage(ctx context.Context, prefix string) ([]storage.StoredObject, error)
}

type imageService struct {
	imageRepo repository.ImageRepository
	store     storage.ObjectStore
	now       func() time.Time
}

func NewImageService(imageRepo repository.ImageRepository, store storage.ObjectStore) ImageService {
	return &imageService{
		imageRepo: imageRepo,
		store:     store,
		now:       time.Now,
	}
}

// UploadKey returns uploads/<unixmillis>-<random>.<ext>.
func UploadKey(now time.Time, filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}

	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s%d-%s%s", uploadPrefix, now.UnixMilli(), random, ext)
}

func normalizeContentType(contentType string) string {
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		return strings.ToLower(mediaType)
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func (s *imageService) Upload(ctx context.Context, input UploadInput) (*model.ImageAsset, error) {
	if input.Body == nil || input.Size <= 0 {
		return nil, ErrEmptyUpload
	}
	if err := storage.ValidateFileSize(input.Size, MaxImageSize); err != nil {
		return nil, ErrFileTooLarge
	}

	contentType := normalizeContentType(input.ContentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = normalizeContentType(mime.TypeByExtension(filepath.Ext(input.Filename)))
	}
	if err := storage.ValidateContentType(contentType, allowedImageTypes); err != nil {
		logger.Warn("Rejected upload", map[string]interface{}{
			"filename":     input.Filename,
			"content_type": contentType,
		})
		return nil, ErrInvalidImageType
	}

	key := UploadKey(s.now(), input.Filename, contentType)
	url, err := s.store.Put(ctx, key, input.Body, input.Size, contentType)
	if err != nil {
		return nil, err
	}

	label := strings.TrimSpace(input.Label)
	if label == "" {
		label = strings.TrimSuffix(filepath.Base(input.Filename), filepath.Ext(input.Filename))
	}

	image := &model.ImageAsset{
		URL:         url,
		Label:       label,
		StorageKey:  key,
		ContentType: contentType,
		Size:        input.Size,
	}
	if err := s.imageRepo.Create(image); err != nil {
		// the blob stays in the bucket; ListStorage still shows it
		logger.Error("Uploaded image could not be registered", err, map[string]interface{}{
			"storage_key": key,
		})
		return nil, err
	}

	logger.Info("Image uploaded", map[string]interface{}{
		"image_id":    image.ID,
		"storage_key": key,
		"size":        input.Size,
	})
	return image, nil
}

func (s *imageService) List(includeDeleted bool) ([]model.ImageAsset, error) {
	return s.imageRepo.FindAll(includeDeleted)
}

func (s *imageService) setDeleted(id uint, deleted bool) (*model.ImageAsset, error) {
	if err := s.imageRepo.SetDeleted(id, deleted); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	image, err := s.imageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	logger.Info("Image registry flag changed", map[string]interface{}{
		"image_id":   id,
		"is_deleted": deleted,
	})
	return image, nil
}

// SoftDelete hides the image from the library. The blob is kept.
func (s *imageService) SoftDelete(id uint) (*model.ImageAsset, error) {
	return s.setDeleted(id, true)
}

func (s *imageService) Restore(id uint) (*model.ImageAsset, error) {
	return s.setDeleted(id, false)
}

func (s *imageService) ListStorage(ctx context.Context, prefix string) ([]storage.StoredObject, error) {
	if prefix == "" {
		prefix = uploadPrefix
	}
	return s.store.List(ctx, prefix)
}
