package service

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"github.com/hengyuan-pack/giftbox-site/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductSlugExists    = errors.New("product slug already exists")
	ErrInvalidCategory      = errors.New("invalid product category")
	ErrInvalidStatus        = errors.New("invalid product status")
	ErrInvalidGiftSetItem   = errors.New("invalid gift set item")
	ErrProductImageLinkFail = errors.New("product saved but images could not be linked")
)

type GiftSetItemInput struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type ProductInput struct {
	Name          string
	Slug          string
	Category      string
	Status        string
	SKU           string
	MinQty        *int
	PriceHint     *float64
	Currency      string
	ShortDesc     string
	Description   string
	CoverImage    string
	Images        []string
	Materials     string
	Dimensions    string
	LeadTime      string
	PackagingInfo string
	OriginCountry string
	Unit          string
	NotesForBuyer string
	TagIDs        []uint
	GiftSetItems  []GiftSetItemInput
}

func (in ProductInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Category, validation.Required),
		validation.Field(&in.MinQty, validation.Min(0)),
		validation.Field(&in.PriceHint, validation.Min(0.0)),
	)
}

// ProductResult carries a saved product and, when the image step failed,
// a warning for the admin.
type ProductResult struct {
	Product *model.Product `json:"product"`
	Warning string         `json:"warning,omitempty"`
}

type ProductListOptions struct {
	Category *model.ProductCategory
	Status   *model.ProductStatus
	TagID    *uint
	Search   string
	Limit    int
	Offset   int
}

type ProductService interface {
	List(opts ProductListOptions) ([]model.Product, error)
	ListActive(category *model.ProductCategory) ([]model.Product, error)
	GetByID(id uint) (*model.Product, error)
	GetBySlug(slug string) (*model.Product, error)
	Create(input ProductInput) (*ProductResult, error)
	Update(id uint, input ProductInput) (*ProductResult, error)
	Delete(id uint) error
}

type productService struct {
	db          *gorm.DB
	productRepo repository.ProductRepository
	tagRepo     repository.TagRepository
}

func NewProductService(db *gorm.DB, productRepo repository.ProductRepository, tagRepo repository.TagRepository) ProductService {
	return &productService{
		db:          db,
		productRepo: productRepo,
		tagRepo:     tagRepo,
	}
}

func (s *productService) List(opts ProductListOptions) ([]model.Product, error) {
	logger.Debug("Listing products", map[string]interface{}{
		"category": opts.Category,
		"status":   opts.Status,
		"tag_id":   opts.TagID,
		"search":   opts.Search,
	})

	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		Category: opts.Category,
		Status:   opts.Status,
		TagID:    opts.TagID,
		Search:   strings.TrimSpace(opts.Search),
		Limit:    opts.Limit,
		Offset:   opts.Offset,
	})
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}
	return products, nil
}

func (s *productService) ListActive(category *model.ProductCategory) ([]model.Product, error) {
	status := model.StatusActive
	return s.List(ProductListOptions{Category: category, Status: &status})
}

func (s *productService) GetByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

// GetBySlug only returns ACTIVE products.
func (s *productService) GetBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.Status != model.StatusActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}

type preparedProduct struct {
	fields   model.Product
	tagIDs   []uint
	items    []model.GiftSetItem
	cover    string
	images   []string
	category model.ProductCategory
}

func (s *productService) prepare(input ProductInput, selfID uint) (*preparedProduct, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	category, ok := model.ParseProductCategory(input.Category)
	if !ok {
		return nil, ErrInvalidCategory
	}
	status := model.StatusActive
	if strings.TrimSpace(input.Status) != "" {
		if status, ok = model.ParseProductStatus(input.Status); !ok {
			return nil, ErrInvalidStatus
		}
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		slug = util.Slugify(input.Name, "product")
	} else if !util.IsSlug(slug) {
		return nil, validation.Errors{"slug": errors.New("must contain only lowercase letters, digits and dashes")}
	}

	tagIDs := uniqueIDs(input.TagIDs)
	if len(tagIDs) > 0 {
		tags, err := s.tagRepo.FindByIDs(tagIDs)
		if err != nil {
			return nil, err
		}
		if len(tags) != len(tagIDs) {
			return nil, ErrTagNotFound
		}
	}

	var items []model.GiftSetItem
	if category == model.CategoryGiftSet {
		var err error
		if items, err = s.giftSetItems(input.GiftSetItems, selfID); err != nil {
			return nil, err
		}
	}

	images := make([]string, 0, len(input.Images))
	for _, img := range input.Images {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	cover := strings.TrimSpace(input.CoverImage)
	if cover == "" && len(images) > 0 {
		cover = images[0]
	}

	return &preparedProduct{
		fields: model.Product{
			Name:          input.Name,
			Slug:          slug,
			Images:        []string{},
			Category:      category,
			Status:        status,
			SKU:           strings.TrimSpace(input.SKU),
			MinQty:        input.MinQty,
			PriceHint:     input.PriceHint,
			Currency:      strings.ToUpper(strings.TrimSpace(input.Currency)),
			ShortDesc:     input.ShortDesc,
			Description:   input.Description,
			Materials:     input.Materials,
			Dimensions:    input.Dimensions,
			LeadTime:      input.LeadTime,
			PackagingInfo: input.PackagingInfo,
			OriginCountry: input.OriginCountry,
			Unit:          input.Unit,
			NotesForBuyer: input.NotesForBuyer,
		},
		tagIDs:   tagIDs,
		items:    items,
		cover:    cover,
		images:   images,
		category: category,
	}, nil
}

func (s *productService) giftSetItems(inputs []GiftSetItemInput, selfID uint) ([]model.GiftSetItem, error) {
	quantities := make(map[uint]int)
	order := make([]uint, 0, len(inputs))
	for _, in := range inputs {
		if in.ProductID == 0 {
			continue
		}
		if selfID != 0 && in.ProductID == selfID {
			return nil, ErrInvalidGiftSetItem
		}
		qty := in.Quantity
		if qty < 1 {
			qty = 1
		}
		if _, seen := quantities[in.ProductID]; !seen {
			order = append(order, in.ProductID)
		}
		quantities[in.ProductID] += qty
	}

	components, err := s.productRepo.FindByIDs(order)
	if err != nil {
		return nil, err
	}
	if len(components) != len(order) {
		return nil, ErrInvalidGiftSetItem
	}

	items := make([]model.GiftSetItem, 0, len(order))
	for _, id := range order {
		items = append(items, model.GiftSetItem{ProductID: id, Quantity: quantities[id]})
	}
	return items, nil
}

// Create writes the product, its tags and its gift set in one transaction,
// then links the images as a separate step. A failed image step is reported
// as a warning; the product stays.
func (s *productService) Create(input ProductInput) (*ProductResult, error) {
	prepared, err := s.prepare(input, 0)
	if err != nil {
		return nil, err
	}

	product := prepared.fields
	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		if err := repo.Create(&product); err != nil {
			return err
		}
		if err := repo.ReplaceTags(product.ID, prepared.tagIDs); err != nil {
			return err
		}
		if prepared.category == model.CategoryGiftSet {
			return repo.ReplaceGiftSet(product.ID, prepared.items)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProductSlugExists
		}
		logger.Error("Failed to create product", err, map[string]interface{}{
			"slug": product.Slug,
		})
		return nil, err
	}

	result := &ProductResult{}
	if err := s.productRepo.UpdateImages(product.ID, prepared.cover, prepared.images); err != nil {
		logger.Warn("Product created without images", map[string]interface{}{
			"product_id": product.ID,
			"error":      err.Error(),
		})
		result.Warning = ErrProductImageLinkFail.Error()
	}

	saved, err := s.GetByID(product.ID)
	if err != nil {
		return nil, err
	}
	result.Product = saved

	logger.Info("Product created", map[string]interface{}{
		"product_id": saved.ID,
		"slug":       saved.Slug,
		"category":   saved.Category,
		"tags":       len(prepared.tagIDs),
	})
	return result, nil
}

func (s *productService) Update(id uint, input ProductInput) (*ProductResult, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	prepared, err := s.prepare(input, id)
	if err != nil {
		return nil, err
	}

	product := prepared.fields
	product.ID = existing.ID
	product.CreatedAt = existing.CreatedAt
	product.CoverImage = prepared.cover
	product.Images = prepared.images

	err = s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		if err := repo.Update(&product); err != nil {
			return err
		}
		if err := repo.ReplaceTags(product.ID, prepared.tagIDs); err != nil {
			return err
		}
		if prepared.category == model.CategoryGiftSet {
			return repo.ReplaceGiftSet(product.ID, prepared.items)
		}
		if existing.GiftSet != nil {
			return repo.DeleteOwnGiftSet(product.ID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProductSlugExists
		}
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	saved, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	logger.Info("Product updated", map[string]interface{}{
		"product_id": id,
		"slug":       saved.Slug,
	})
	return &ProductResult{Product: saved}, nil
}

// Delete removes the product with its gift set, its use as a set component
// and its tag links in one transaction.
func (s *productService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)
		if err := repo.RemoveGiftSet(id); err != nil {
			return err
		}
		if err := repo.DeleteProductTags(id); err != nil {
			return err
		}
		return repo.Delete(id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted", map[string]interface{}{
		"product_id": id,
	})
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
