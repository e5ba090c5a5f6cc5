package repository

import (
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"gorm.io/gorm"
)

type FrontCategoryRepository interface {
	WithTx(tx *gorm.DB) FrontCategoryRepository
	Create(category *model.FrontCategory) error
	Update(category *model.FrontCategory) error
	Delete(id uint) error
	FindByID(id uint) (*model.FrontCategory, error)
	FindBySlug(slug string, activeOnly bool) (*model.FrontCategory, error)
	FindAll(activeOnly bool) ([]model.FrontCategory, error)
	FindBySlugs(slugs []string) ([]model.FrontCategory, error)

	CreateGroup(group *model.FrontCategoryTagGroup) error
	UpdateGroup(group *model.FrontCategoryTagGroup) error
	DeleteGroup(categoryID, groupID uint) error
	DeleteGroups(categoryID uint) error
}

type frontCategoryRepository struct {
	db *gorm.DB
}

func NewFrontCategoryRepository(db *gorm.DB) FrontCategoryRepository {
	return &frontCategoryRepository{db: db}
}

func (r *frontCategoryRepository) WithTx(tx *gorm.DB) FrontCategoryRepository {
	return &frontCategoryRepository{db: tx}
}

func (r *frontCategoryRepository) withGroups() *gorm.DB {
	return r.db.Preload("TagGroups", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC").Order("id ASC")
	}).Preload("TagGroups.Tag")
}

func (r *frontCategoryRepository) Create(category *model.FrontCategory) error {
	logger.Debug("Creating front category in database", map[string]interface{}{
		"name": category.Name,
		"slug": category.Slug,
	})

	if err := r.db.Omit("TagGroups").Create(category).Error; err != nil {
		logger.Error("Failed to create front category in database", err, map[string]interface{}{
			"slug": category.Slug,
		})
		return err
	}
	return nil
}

func (r *frontCategoryRepository) Update(category *model.FrontCategory) error {
	if err := r.db.Omit("TagGroups").Save(category).Error; err != nil {
		logger.Error("Failed to update front category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *frontCategoryRepository) Delete(id uint) error {
	result := r.db.Delete(&model.FrontCategory{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete front category from database", result.Error, map[string]interface{}{
			"category_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *frontCategoryRepository) FindByID(id uint) (*model.FrontCategory, error) {
	var category model.FrontCategory
	if err := r.withGroups().First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *frontCategoryRepository) FindBySlug(slug string, activeOnly bool) (*model.FrontCategory, error) {
	query := r.withGroups().Where("slug = ?", slug)
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var category model.FrontCategory
	if err := query.First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *frontCategoryRepository) FindAll(activeOnly bool) ([]model.FrontCategory, error) {
	query := r.withGroups()
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []model.FrontCategory
	if err := query.Order("sort_order ASC").Order("id ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list front categories", err)
		return nil, err
	}
	return categories, nil
}

// FindBySlugs returns active categories in the order the slugs were given.
func (r *frontCategoryRepository) FindBySlugs(slugs []string) ([]model.FrontCategory, error) {
	if len(slugs) == 0 {
		return []model.FrontCategory{}, nil
	}

	var found []model.FrontCategory
	if err := r.db.Where("slug IN ? AND is_active = ?", slugs, true).Find(&found).Error; err != nil {
		return nil, err
	}

	bySlug := make(map[string]model.FrontCategory, len(found))
	for _, c := range found {
		bySlug[c.Slug] = c
	}
	ordered := make([]model.FrontCategory, 0, len(found))
	for _, slug := range slugs {
		if c, ok := bySlug[slug]; ok {
			ordered = append(ordered, c)
			delete(bySlug, slug)
		}
	}
	return ordered, nil
}

func (r *frontCategoryRepository) CreateGroup(group *model.FrontCategoryTagGroup) error {
	return r.db.Omit("Tag").Create(group).Error
}

func (r *frontCategoryRepository) UpdateGroup(group *model.FrontCategoryTagGroup) error {
	result := r.db.Model(&model.FrontCategoryTagGroup{}).
		Where("id = ? AND front_category_id = ?", group.ID, group.FrontCategoryID).
		Updates(map[string]interface{}{
			"label":       group.Label,
			"description": group.Description,
			"tag_id":      group.TagID,
			"sort_order":  group.Order,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *frontCategoryRepository) DeleteGroup(categoryID, groupID uint) error {
	return r.db.Where("id = ? AND front_category_id = ?", groupID, categoryID).
		Delete(&model.FrontCategoryTagGroup{}).Error
}

func (r *frontCategoryRepository) DeleteGroups(categoryID uint) error {
	return r.db.Where("front_category_id = ?", categoryID).Delete(&model.FrontCategoryTagGroup{}).Error
}
