package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type PageType string

const (
	PageTypeHomepage PageType = "HOMEPAGE"
	PageTypeAbout    PageType = "ABOUT"
	PageTypeFactory  PageType = "FACTORY"
	PageTypeContact  PageType = "CONTACT"
	PageTypeProducts PageType = "PRODUCTS"
	PageTypeCustom   PageType = "CUSTOM"
	PageTypeCase     PageType = "CASE"
)

var pageTypes = []PageType{
	PageTypeHomepage,
	PageTypeAbout,
	PageTypeFactory,
	PageTypeContact,
	PageTypeProducts,
	PageTypeCustom,
	PageTypeCase,
}

// ParsePageType accepts any casing and reports whether the value is known.
func ParsePageType(s string) (PageType, bool) {
	candidate := PageType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range pageTypes {
		if t == candidate {
			return t, true
		}
	}
	return "", false
}

// SitePage is a slug-addressed public page with bilingual metadata.
type SitePage struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	Slug       string         `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"`
	Type       PageType       `gorm:"type:varchar(20);not null;index" json:"type"`
	IsDefault  bool           `gorm:"default:false" json:"isDefault"` // seeded pages, never deletable
	IsEnabled  bool           `gorm:"not null" json:"isEnabled"`
	ShowInNav  bool           `gorm:"not null" json:"showInNav"`
	Order      int            `gorm:"column:sort_order;default:0;index" json:"order"`
	NavLabelZh string         `gorm:"type:varchar(120)" json:"navLabel_zh"`
	NavLabelEn string         `gorm:"type:varchar(120)" json:"navLabel_en"`
	LabelZh    string         `gorm:"type:varchar(200)" json:"label_zh"`
	LabelEn    string         `gorm:"type:varchar(200)" json:"label_en"`
	TitleZh    string         `gorm:"type:varchar(255)" json:"title_zh"`
	TitleEn    string         `gorm:"type:varchar(255)" json:"title_en"`
	DescZh     string         `gorm:"type:text" json:"desc_zh"`
	DescEn     string         `gorm:"type:text" json:"desc_en"`
	PageData   datatypes.JSON `json:"pageData"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

func (SitePage) TableName() string {
	return "site_pages"
}

// Path is the public route the page renders at.
func (p SitePage) Path() string {
	switch p.Type {
	case PageTypeHomepage:
		return "/"
	case PageTypeAbout:
		return "/about"
	case PageTypeFactory:
		return "/factory"
	case PageTypeContact:
		return "/contact"
	case PageTypeProducts:
		return "/products"
	default:
		return "/p/" + p.Slug
	}
}
