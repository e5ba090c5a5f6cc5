package model

import "time"

// FrontCategory is a curated catalog landing page.
type FrontCategory struct {
	ID           uint             `gorm:"primarykey" json:"id"`
	Name         string           `gorm:"not null" json:"name"`
	Slug         string           `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	BaseCategory *ProductCategory `gorm:"type:varchar(20)" json:"baseCategory"` // optional product filter
	Order        int              `gorm:"column:sort_order;default:0" json:"order"`
	IsActive     bool             `gorm:"not null" json:"isActive"`
	HeroTitleZh  string           `json:"heroTitle_zh"`
	HeroTitleEn  string           `json:"heroTitle_en"`
	HeroDescZh   string           `gorm:"type:text" json:"heroDesc_zh"`
	HeroDescEn   string           `gorm:"type:text" json:"heroDesc_en"`
	HeroImage    string           `json:"heroImage"`
	CardTitleZh  string           `json:"cardTitle_zh"`
	CardTitleEn  string           `json:"cardTitle_en"`
	CardDescZh   string           `gorm:"type:text" json:"cardDesc_zh"`
	CardDescEn   string           `gorm:"type:text" json:"cardDesc_en"`
	CardImage    string           `json:"cardImage"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`

	TagGroups []FrontCategoryTagGroup `gorm:"foreignKey:FrontCategoryID" json:"tagGroups,omitempty"`
}

func (FrontCategory) TableName() string {
	return "front_categories"
}

type FrontCategoryTagGroup struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	FrontCategoryID uint   `gorm:"index;not null" json:"frontCategoryId"`
	Label           string `gorm:"not null" json:"label"`
	Description     string `gorm:"type:text" json:"description"`
	TagID           uint   `gorm:"index;not null" json:"tagId"`
	Order           int    `gorm:"column:sort_order;default:0" json:"order"`
	Tag             *Tag   `gorm:"foreignKey:TagID" json:"tag,omitempty"`
}

func (FrontCategoryTagGroup) TableName() string {
	return "front_category_tag_groups"
}
