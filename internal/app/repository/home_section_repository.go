package repository

import (
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"gorm.io/gorm"
)

type HomeSectionRepository interface {
	WithTx(tx *gorm.DB) HomeSectionRepository
	Create(section *model.HomeSection) error
	Update(section *model.HomeSection) error
	Delete(id uint) error
	FindByID(id uint) (*model.HomeSection, error)
	FindAll(enabledOnly bool) ([]model.HomeSection, error)
	MaxOrder() (int, error)
	UpdateOrder(id uint, order int) error
	SetEnabled(id uint, enabled bool) error
}

type homeSectionRepository struct {
	db *gorm.DB
}

func NewHomeSectionRepository(db *gorm.DB) HomeSectionRepository {
	return &homeSectionRepository{db: db}
}

func (r *homeSectionRepository) WithTx(tx *gorm.DB) HomeSectionRepository {
	return &homeSectionRepository{db: tx}
}

func (r *homeSectionRepository) Create(section *model.HomeSection) error {
	logger.Debug("Creating home section in database", map[string]interface{}{
		"type":  section.Type,
		"order": section.Order,
	})

	if err := r.db.Create(section).Error; err != nil {
		logger.Error("Failed to create home section in database", err, map[string]interface{}{
			"type": section.Type,
		})
		return err
	}
	return nil
}

func (r *homeSectionRepository) Update(section *model.HomeSection) error {
	if err := r.db.Save(section).Error; err != nil {
		logger.Error("Failed to update home section in database", err, map[string]interface{}{
			"section_id": section.ID,
		})
		return err
	}
	return nil
}

func (r *homeSectionRepository) Delete(id uint) error {
	result := r.db.Delete(&model.HomeSection{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete home section", result.Error, map[string]interface{}{
			"section_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *homeSectionRepository) FindByID(id uint) (*model.HomeSection, error) {
	var section model.HomeSection
	if err := r.db.First(&section, id).Error; err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *homeSectionRepository) FindAll(enabledOnly bool) ([]model.HomeSection, error) {
	query := r.db.Model(&model.HomeSection{}).Order("sort_order ASC").Order("id ASC")
	if enabledOnly {
		query = query.Where("enabled = ?", true)
	}

	var sections []model.HomeSection
	if err := query.Find(&sections).Error; err != nil {
		logger.Error("Failed to list home sections", err, map[string]interface{}{
			"enabled_only": enabledOnly,
		})
		return nil, err
	}
	return sections, nil
}

func (r *homeSectionRepository) MaxOrder() (int, error) {
	var max *int
	if err := r.db.Model(&model.HomeSection{}).Select("MAX(sort_order)").Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *homeSectionRepository) UpdateOrder(id uint, order int) error {
	result := r.db.Model(&model.HomeSection{}).Where("id = ?", id).Update("sort_order", order)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *homeSectionRepository) SetEnabled(id uint, enabled bool) error {
	result := r.db.Model(&model.HomeSection{}).Where("id = ?", id).Update("enabled", enabled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
