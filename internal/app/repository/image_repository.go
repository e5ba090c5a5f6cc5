package repository

import (
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(image *model.ImageAsset) error
	FindByID(id uint) (*model.ImageAsset, error)
	FindAll(includeDeleted bool) ([]model.ImageAsset, error)
	SetDeleted(id uint, deleted bool) error
}

type imageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(image *model.ImageAsset) error {
	logger.Debug("Registering image asset", map[string]interface{}{
		"storage_key": image.StorageKey,
		"size":        image.Size,
	})

	if err := r.db.Create(image).Error; err != nil {
		logger.Error("Failed to register image asset", err, map[string]interface{}{
			"storage_key": image.StorageKey,
		})
		return err
	}
	return nil
}

func (r *imageRepository) FindByID(id uint) (*model.ImageAsset, error) {
	var image model.ImageAsset
	if err := r.db.First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *imageRepository) FindAll(includeDeleted bool) ([]model.ImageAsset, error) {
	query := r.db.Model(&model.ImageAsset{})
	if !includeDeleted {
		query = query.Where("is_deleted = ?", false)
	}

	var images []model.ImageAsset
	if err := query.Order("created_at DESC").Order("id DESC").Find(&images).Error; err != nil {
		logger.Error("Failed to list image assets", err)
		return nil, err
	}
	return images, nil
}

func (r *imageRepository) SetDeleted(id uint, deleted bool) error {
	result := r.db.Model(&model.ImageAsset{}).Where("id = ?", id).Update("is_deleted", deleted)
	if result.Error != nil {
		logger.Error("Failed to update image asset", result.Error, map[string]interface{}{
			"image_id": id,
			"deleted":  deleted,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
