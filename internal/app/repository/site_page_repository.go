package repository

import (
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"gorm.io/gorm"
)

type SitePageRepository interface {
	WithTx(tx *gorm.DB) SitePageRepository
	Create(page *model.SitePage) error
	Update(page *model.SitePage) error
	Delete(id uint) error
	FindByID(id uint) (*model.SitePage, error)
	FindBySlug(slug string) (*model.SitePage, error)
	FindFirstByType(pageType model.PageType) (*model.SitePage, error)
	FindAll() ([]model.SitePage, error)
	FindNav() ([]model.SitePage, error)
	UpdateColumns(id uint, values map[string]interface{}) error
	UpdateOrder(id uint, order int) error
}

type sitePageRepository struct {
	db *gorm.DB
}

func NewSitePageRepository(db *gorm.DB) SitePageRepository {
	return &sitePageRepository{db: db}
}

func (r *sitePageRepository) WithTx(tx *gorm.DB) SitePageRepository {
	return &sitePageRepository{db: tx}
}

func (r *sitePageRepository) ordered() *gorm.DB {
	return r.db.Model(&model.SitePage{}).Order("sort_order ASC").Order("id ASC")
}

func (r *sitePageRepository) Create(page *model.SitePage) error {
	logger.Debug("Creating site page in database", map[string]interface{}{
		"slug": page.Slug,
		"type": page.Type,
	})

	if err := r.db.Create(page).Error; err != nil {
		logger.Error("Failed to create site page in database", err, map[string]interface{}{
			"slug": page.Slug,
		})
		return err
	}
	return nil
}

func (r *sitePageRepository) Update(page *model.SitePage) error {
	logger.Debug("Updating site page in database", map[string]interface{}{
		"page_id": page.ID,
		"slug":    page.Slug,
	})

	if err := r.db.Save(page).Error; err != nil {
		logger.Error("Failed to update site page in database", err, map[string]interface{}{
			"page_id": page.ID,
		})
		return err
	}
	return nil
}

func (r *sitePageRepository) Delete(id uint) error {
	logger.Debug("Deleting site page from database", map[string]interface{}{
		"page_id": id,
	})

	result := r.db.Delete(&model.SitePage{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete site page from database", result.Error, map[string]interface{}{
			"page_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sitePageRepository) FindByID(id uint) (*model.SitePage, error) {
	var page model.SitePage
	if err := r.db.First(&page, id).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *sitePageRepository) FindBySlug(slug string) (*model.SitePage, error) {
	var page model.SitePage
	if err := r.db.Where("slug = ?", slug).First(&page).Error; err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *sitePageRepository) FindFirstByType(pageType model.PageType) (*model.SitePage, error) {
	var page model.SitePage
	err := r.ordered().
		Where("type = ?", pageType).
		First(&page).Error
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (r *sitePageRepository) FindAll() ([]model.SitePage, error) {
	var pages []model.SitePage
	if err := r.ordered().Find(&pages).Error; err != nil {
		logger.Error("Failed to list site pages", err)
		return nil, err
	}

	logger.Debug("Site pages listed", map[string]interface{}{
		"count": len(pages),
	})
	return pages, nil
}

func (r *sitePageRepository) FindNav() ([]model.SitePage, error) {
	var pages []model.SitePage
	err := r.ordered().
		Where("is_enabled = ? AND show_in_nav = ?", true, true).
		Find(&pages).Error
	if err != nil {
		logger.Error("Failed to list nav pages", err)
		return nil, err
	}
	return pages, nil
}

func (r *sitePageRepository) UpdateColumns(id uint, values map[string]interface{}) error {
	logger.Debug("Updating site page columns", map[string]interface{}{
		"page_id": id,
		"values":  values,
	})

	result := r.db.Model(&model.SitePage{}).Where("id = ?", id).Updates(values)
	if result.Error != nil {
		logger.Error("Failed to update site page columns", result.Error, map[string]interface{}{
			"page_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *sitePageRepository) UpdateOrder(id uint, order int) error {
	return r.db.Model(&model.SitePage{}).Where("id = ?", id).Update("sort_order", order).Error
}
