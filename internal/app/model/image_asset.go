package model

import "time"

// ImageAsset is the registry row for an uploaded blob. Deletion is soft.
type ImageAsset struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	URL         string    `gorm:"not null" json:"url"`
	Label       string    `json:"label"`
	StorageKey  string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"storageKey"`
	ContentType string    `gorm:"type:varchar(80)" json:"contentType"`
	Size        int64     `json:"size"`
	IsDeleted   bool      `gorm:"default:false;index" json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (ImageAsset) TableName() string {
	return "image_assets"
}
