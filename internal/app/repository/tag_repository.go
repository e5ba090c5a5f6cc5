package repository

import (
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"gorm.io/gorm"
)

type TagRepository interface {
	WithTx(tx *gorm.DB) TagRepository
	Create(tag *model.Tag) error
	Update(tag *model.Tag) error
	Delete(id uint) error
	FindByID(id uint) (*model.Tag, error)
	FindBySlug(slug string) (*model.Tag, error)
	FindAll() ([]model.Tag, error)
	FindByIDs(ids []uint) ([]model.Tag, error)
	DeleteProductLinks(tagID uint) error
	DeleteCategoryGroups(tagID uint) error
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) WithTx(tx *gorm.DB) TagRepository {
	return &tagRepository{db: tx}
}

func (r *tagRepository) Create(tag *model.Tag) error {
	logger.Debug("Creating tag in database", map[string]interface{}{
		"name": tag.Name,
		"slug": tag.Slug,
	})

	if err := r.db.Create(tag).Error; err != nil {
		logger.Error("Failed to create tag in database", err, map[string]interface{}{
			"slug": tag.Slug,
		})
		return err
	}
	return nil
}

func (r *tagRepository) Update(tag *model.Tag) error {
	if err := r.db.Save(tag).Error; err != nil {
		logger.Error("Failed to update tag in database", err, map[string]interface{}{
			"tag_id": tag.ID,
		})
		return err
	}
	return nil
}

func (r *tagRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Tag{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete tag from database", result.Error, map[string]interface{}{
			"tag_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tagRepository) FindByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindBySlug(slug string) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindAll() ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.Order("name ASC").Order("id ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to list tags", err)
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByIDs(ids []uint) ([]model.Tag, error) {
	if len(ids) == 0 {
		return []model.Tag{}, nil
	}
	var tags []model.Tag
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) DeleteProductLinks(tagID uint) error {
	return r.db.Where("tag_id = ?", tagID).Delete(&model.ProductTag{}).Error
}

func (r *tagRepository) DeleteCategoryGroups(tagID uint) error {
	return r.db.Where("tag_id = ?", tagID).Delete(&model.FrontCategoryTagGroup{}).Error
}
