package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type SectionType string

const (
	SectionHero     SectionType = "HERO"
	SectionWhy      SectionType = "WHY"
	SectionProducts SectionType = "PRODUCTS"
	SectionFactory  SectionType = "FACTORY"
	SectionBlog     SectionType = "BLOG"
	SectionCTA      SectionType = "CTA"
	SectionRichText SectionType = "RICH_TEXT"
)

var sectionTypes = []SectionType{
	SectionHero,
	SectionWhy,
	SectionProducts,
	SectionFactory,
	SectionBlog,
	SectionCTA,
	SectionRichText,
}

func ParseSectionType(s string) (SectionType, bool) {
	candidate := SectionType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range sectionTypes {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

// HomeSection is an ordered, typed block on the homepage.
// Rows sort by Order, then ID (insertion order) on ties.
type HomeSection struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Type      SectionType    `gorm:"type:varchar(20);not null" json:"type"`
	Order     int            `gorm:"column:sort_order;default:0;index" json:"order"`
	Enabled   bool           `gorm:"not null" json:"enabled"`
	Payload   datatypes.JSON `json:"payload"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (HomeSection) TableName() string {
	return "home_sections"
}
