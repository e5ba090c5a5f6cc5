package repository

import (
	"errors"
	"fmt"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"gorm.io/gorm"
)

type ProductFilter struct {
	Category *model.ProductCategory
	Status   *model.ProductStatus
	TagID    *uint
	Search   string
	Limit    int
	Offset   int
}

type ProductRepository interface {
	WithTx(tx *gorm.DB) ProductRepository
	Create(product *model.Product) error
	Update(product *model.Product) error
	UpdateImages(id uint, cover string, images []string) error
	Delete(id uint) error
	FindByID(id uint) (*model.Product, error)
	FindBySlug(slug string) (*model.Product, error)
	FindWithFilter(filter ProductFilter) ([]model.Product, error)
	FindByIDs(ids []uint) ([]model.Product, error)
	ReplaceTags(productID uint, tagIDs []uint) error
	ReplaceGiftSet(productID uint, items []model.GiftSetItem) error
	RemoveGiftSet(productID uint) error
	DeleteOwnGiftSet(productID uint) error
	DeleteProductTags(productID uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) WithTx(tx *gorm.DB) ProductRepository {
	return &productRepository{db: tx}
}

func (r *productRepository) baseQuery() *gorm.DB {
	return r.db.Model(&model.Product{}).
		Preload("Tags").
		Preload("GiftSet.Items")
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":     product.Name,
		"slug":     product.Slug,
		"category": product.Category,
	})

	// associations are written explicitly by ReplaceTags / ReplaceGiftSet
	if err := r.db.Omit("Tags", "GiftSet").Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
			"slug": product.Slug,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
		"slug":       product.Slug,
	})

	if err := r.db.Omit("Tags", "GiftSet").Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) UpdateImages(id uint, cover string, images []string) error {
	if images == nil {
		images = []string{}
	}
	product := model.Product{ID: id}
	return r.db.Model(&product).Select("CoverImage", "Images").Updates(model.Product{
		CoverImage: cover,
		Images:     images,
	}).Error
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	result := r.db.Delete(&model.Product{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete product from database", result.Error, map[string]interface{}{
			"product_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.baseQuery().First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	if err := r.baseQuery().Preload("GiftSet.Items.Product").Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category": filter.Category,
		"status":   filter.Status,
		"tag_id":   filter.TagID,
		"search":   filter.Search,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})

	query := r.baseQuery()

	if filter.Category != nil {
		query = query.Where("products.category = ?", *filter.Category)
	}
	if filter.Status != nil {
		query = query.Where("products.status = ?", *filter.Status)
	}
	if filter.TagID != nil {
		query = query.Where("products.id IN (?)",
			r.db.Model(&model.ProductTag{}).Select("product_id").Where("tag_id = ?", *filter.TagID))
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where("products.name LIKE ? OR products.sku LIKE ? OR products.short_desc LIKE ?", like, like, like)
	}

	query = query.Order("products.created_at DESC").Order("products.id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"search": filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByIDs(ids []uint) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	var products []model.Product
	if err := r.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ReplaceTags(productID uint, tagIDs []uint) error {
	if err := r.DeleteProductTags(productID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]model.ProductTag, 0, len(tagIDs))
	seen := make(map[uint]bool, len(tagIDs))
	for _, id := range tagIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, model.ProductTag{ProductID: productID, TagID: id})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := r.db.Create(&rows).Error; err != nil {
		logger.Error("Failed to link product tags", err, map[string]interface{}{
			"product_id": productID,
			"tag_ids":    tagIDs,
		})
		return err
	}
	return nil
}

func (r *productRepository) DeleteProductTags(productID uint) error {
	return r.db.Where("product_id = ?", productID).Delete(&model.ProductTag{}).Error
}

// ReplaceGiftSet creates the product's set when missing and swaps its items.
func (r *productRepository) ReplaceGiftSet(productID uint, items []model.GiftSetItem) error {
	var set model.GiftSet
	err := r.db.Where("product_id = ?", productID).First(&set).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		set = model.GiftSet{ProductID: productID}
		if err := r.db.Create(&set).Error; err != nil {
			return err
		}
	case err != nil:
		return err
	}

	if err := r.db.Where("gift_set_id = ?", set.ID).Delete(&model.GiftSetItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	rows := make([]model.GiftSetItem, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.GiftSetItem{
			GiftSetID: set.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	return r.db.Create(&rows).Error
}

// RemoveGiftSet drops the product's own set and every item that uses the
// product as a component.
func (r *productRepository) RemoveGiftSet(productID uint) error {
	ownSets := r.db.Model(&model.GiftSet{}).Select("id").Where("product_id = ?", productID)
	if err := r.db.Where("gift_set_id IN (?) OR product_id = ?", ownSets, productID).
		Delete(&model.GiftSetItem{}).Error; err != nil {
		logger.Error("Failed to delete gift set items", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	if err := r.db.Where("product_id = ?", productID).Delete(&model.GiftSet{}).Error; err != nil {
		logger.Error("Failed to delete gift set", err, map[string]interface{}{
			"product_id": productID,
		})
		return err
	}
	return nil
}

// DeleteOwnGiftSet drops only the set owned by the product.
func (r *productRepository) DeleteOwnGiftSet(productID uint) error {
	ownSets := r.db.Model(&model.GiftSet{}).Select("id").Where("product_id = ?", productID)
	if err := r.db.Where("gift_set_id IN (?)", ownSets).Delete(&model.GiftSetItem{}).Error; err != nil {
		return err
	}
	return r.db.Where("product_id = ?", productID).Delete(&model.GiftSet{}).Error
}
