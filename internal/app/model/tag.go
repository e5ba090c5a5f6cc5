package model

import "time"

type Tag struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(80);not null" json:"name"`
	Slug      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Tag) TableName() string {
	return "tags"
}

// ProductTag is the product/tag join row.
type ProductTag struct {
	ProductID uint `gorm:"primaryKey;index" json:"productId"`
	TagID     uint `gorm:"primaryKey;index" json:"tagId"`
}

func (ProductTag) TableName() string {
	return "product_tags"
}
