package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

type ProductCategory string

const (
	CategoryGift    ProductCategory = "GIFT"
	CategoryGiftBox ProductCategory = "GIFT_BOX"
	CategoryGiftSet ProductCategory = "GIFT_SET"
)

func ParseProductCategory(s string) (ProductCategory, bool) {
	switch c := ProductCategory(strings.ToUpper(strings.TrimSpace(s))); c {
	case CategoryGift, CategoryGiftBox, CategoryGiftSet:
		return c, true
	}
	return "", false
}

type ProductStatus string

const (
	StatusActive   ProductStatus = "ACTIVE"
	StatusDraft    ProductStatus = "DRAFT"
	StatusArchived ProductStatus = "ARCHIVED"
)

func ParseProductStatus(s string) (ProductStatus, bool) {
	switch st := ProductStatus(strings.ToUpper(strings.TrimSpace(s))); st {
	case StatusActive, StatusDraft, StatusArchived:
		return st, true
	}
	return "", false
}

type Product struct {
	ID            uint                        `gorm:"primarykey" json:"id"`
	Name          string                      `gorm:"not null" json:"name"`
	Slug          string                      `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug"`
	Category      ProductCategory             `gorm:"type:varchar(20);not null;index" json:"category"`
	Status        ProductStatus               `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"`
	SKU           string                      `gorm:"type:varchar(80)" json:"sku"`
	MinQty        *int                        `json:"minQty"`    // minimum order quantity
	PriceHint     *float64                    `json:"priceHint"` // indicative unit price
	Currency      string                      `gorm:"type:varchar(8)" json:"currency"`
	ShortDesc     string                      `gorm:"type:text" json:"shortDesc"`
	Description   string                      `gorm:"type:text" json:"description"`
	CoverImage    string                      `json:"coverImage"`
	Images        datatypes.JSONSlice[string] `json:"images"`
	Materials     string                      `json:"materials"`
	Dimensions    string                      `json:"dimensions"`
	LeadTime      string                      `json:"leadTime"`
	PackagingInfo string                      `gorm:"type:text" json:"packagingInfo"`
	OriginCountry string                      `json:"originCountry"`
	Unit          string                      `json:"unit"`
	NotesForBuyer string                      `gorm:"type:text" json:"notesForBuyer"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`

	Tags    []Tag    `gorm:"many2many:product_tags;" json:"tags,omitempty"`
	GiftSet *GiftSet `gorm:"foreignKey:ProductID" json:"giftSet,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// TagIDs returns the ids of the loaded tags.
func (p Product) TagIDs() []uint {
	ids := make([]uint, 0, len(p.Tags))
	for _, t := range p.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// GiftSet is the composition owned by a GIFT_SET product.
type GiftSet struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	ProductID uint          `gorm:"uniqueIndex;not null" json:"productId"`
	Items     []GiftSetItem `gorm:"foreignKey:GiftSetID" json:"items"`
	CreatedAt time.Time     `json:"createdAt"`
}

func (GiftSet) TableName() string {
	return "gift_sets"
}

type GiftSetItem struct {
	ID        uint     `gorm:"primarykey" json:"id"`
	GiftSetID uint     `gorm:"index;not null" json:"giftSetId"`
	ProductID uint     `gorm:"index;not null" json:"productId"` // component product
	Quantity  int      `gorm:"not null;default:1" json:"quantity"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (GiftSetItem) TableName() string {
	return "gift_set_items"
}
