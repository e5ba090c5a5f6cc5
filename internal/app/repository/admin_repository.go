package repository

import (
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"gorm.io/gorm"
)

type AdminRepository interface {
	FindByUsername(username string) (*model.AdminCredential, error)
	Create(admin *model.AdminCredential) error
}

type adminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) FindByUsername(username string) (*model.AdminCredential, error) {
	var admin model.AdminCredential
	if err := r.db.Where("username = ?", username).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) Create(admin *model.AdminCredential) error {
	return r.db.Create(admin).Error
}
