package service

import (
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"github.com/hengyuan-pack/giftbox-site/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound   = errors.New("catalog category not found")
	ErrCategorySlugExists = errors.New("catalog category slug already exists")
	ErrTagGroupNotFound   = errors.New("tag group not found")
)

type CategoryInput struct {
	Name         string
	Slug         string
	BaseCategory string // empty for no filter
	Order        int
	IsActive     bool
	HeroTitleZh  string
	HeroTitleEn  string
	HeroDescZh   string
	HeroDescEn   string
	HeroImage    string
	CardTitleZh  string
	CardTitleEn  string
	CardDescZh   string
	CardDescEn   string
	CardImage    string
}

func (in CategoryInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.Order, validation.Min(0)),
	)
}

// TagGroupRow is one edited row of a category's tag groups.
type TagGroupRow struct {
	ID          uint   `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
	TagID       uint   `json:"tagId"`
	Order       int    `json:"order"`
	Delete      bool   `json:"delete"`
}

// Skipped reports rows the reconciliation leaves untouched.
func (r TagGroupRow) Skipped() bool {
	return strings.TrimSpace(r.Label) == "" || r.TagID == 0
}

// GroupChanges counts what UpdateGroups did.
type GroupChanges struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Deleted int `json:"deleted"`
	Skipped int `json:"skipped"`
}

// ZipGroupRows builds rows from positional form arrays (ids[], labels[], ...).
// Missing or unparsable entries become zero values.
func ZipGroupRows(ids, labels, descriptions, tagIDs, orders, deletes []string) []TagGroupRow {
	n := 0
	for _, col := range [][]string{ids, labels, descriptions, tagIDs, orders, deletes} {
		if len(col) > n {
			n = len(col)
		}
	}

	at := func(col []string, i int) string {
		if i < len(col) {
			return strings.TrimSpace(col[i])
		}
		return ""
	}

	rows := make([]TagGroupRow, 0, n)
	for i := 0; i < n; i++ {
		id, _ := strconv.ParseUint(at(ids, i), 10, 64)
		tagID, _ := strconv.ParseUint(at(tagIDs, i), 10, 64)
		order, _ := strconv.Atoi(at(orders, i))
		rows = append(rows, TagGroupRow{
			ID:          uint(id),
			Label:       at(labels, i),
			Description: at(descriptions, i),
			TagID:       uint(tagID),
			Order:       order,
			Delete:      isTruthy(at(deletes, i)),
		})
	}
	return rows
}

func isTruthy(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// CatalogGroup is one tag bucket of a category page.
type CatalogGroup struct {
	Group    model.FrontCategoryTagGroup `json:"group"`
	Products []model.Product             `json:"products"`
}

type CatalogPage struct {
	Category *model.FrontCategory `json:"category"`
	Groups   []CatalogGroup       `json:"groups"`
	Other    []model.Product      `json:"other"`
	Total    int                  `json:"total"`
}

type CatalogService interface {
	List(activeOnly bool) ([]model.FrontCategory, error)
	ListBySlugs(slugs []string) ([]model.FrontCategory, error)
	GetByID(id uint) (*model.FrontCategory, error)
	GetBySlug(slug string, activeOnly bool) (*model.FrontCategory, error)
	Create(input CategoryInput) (*model.FrontCategory, error)
	Update(id uint, input CategoryInput) (*model.FrontCategory, error)
	Delete(id uint) error
	UpdateGroups(id uint, rows []TagGroupRow) (*GroupChanges, error)
	Page(slug string) (*CatalogPage, error)
}

type catalogService struct {
	db           *gorm.DB
	categoryRepo repository.FrontCategoryRepository
	productRepo  repository.ProductRepository
}

func NewCatalogService(db *gorm.DB, categoryRepo repository.FrontCategoryRepository, productRepo repository.ProductRepository) CatalogService {
	return &catalogService{
		db:           db,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

func (s *catalogService) List(activeOnly bool) ([]model.FrontCategory, error) {
	return s.categoryRepo.FindAll(activeOnly)
}

func (s *catalogService) ListBySlugs(slugs []string) ([]model.FrontCategory, error) {
	return s.categoryRepo.FindBySlugs(slugs)
}

func (s *catalogService) GetByID(id uint) (*model.FrontCategory, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *catalogService) GetBySlug(slug string, activeOnly bool) (*model.FrontCategory, error) {
	category, err := s.categoryRepo.FindBySlug(strings.ToLower(strings.TrimSpace(slug)), activeOnly)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func applyCategoryInput(category *model.FrontCategory, input CategoryInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Order < 0 {
		input.Order = 0
	}
	if err := input.Validate(); err != nil {
		return err
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		slug = util.Slugify(input.Name, "catalog")
	} else if !util.IsSlug(slug) {
		return validation.Errors{"slug": errors.New("must contain only lowercase letters, digits and dashes")}
	}

	category.BaseCategory = nil
	if strings.TrimSpace(input.BaseCategory) != "" {
		base, ok := model.ParseProductCategory(input.BaseCategory)
		if !ok {
			return ErrInvalidCategory
		}
		category.BaseCategory = &base
	}

	category.Name = input.Name
	category.Slug = slug
	category.Order = input.Order
	category.IsActive = input.IsActive
	category.HeroTitleZh = input.HeroTitleZh
	category.HeroTitleEn = input.HeroTitleEn
	category.HeroDescZh = input.HeroDescZh
	category.HeroDescEn = input.HeroDescEn
	category.HeroImage = strings.TrimSpace(input.HeroImage)
	category.CardTitleZh = input.CardTitleZh
	category.CardTitleEn = input.CardTitleEn
	category.CardDescZh = input.CardDescZh
	category.CardDescEn = input.CardDescEn
	category.CardImage = strings.TrimSpace(input.CardImage)
	return nil
}

func (s *catalogService) Create(input CategoryInput) (*model.FrontCategory, error) {
	category := &model.FrontCategory{}
	if err := applyCategoryInput(category, input); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategorySlugExists
		}
		return nil, err
	}

	logger.Info("Catalog category created", map[string]interface{}{
		"category_id": category.ID,
		"slug":        category.Slug,
	})
	return category, nil
}

func (s *catalogService) Update(id uint, input CategoryInput) (*model.FrontCategory, error) {
	category, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := applyCategoryInput(category, input); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrCategorySlugExists
		}
		return nil, err
	}

	logger.Info("Catalog category updated", map[string]interface{}{
		"category_id": id,
		"slug":        category.Slug,
	})
	return category, nil
}

func (s *catalogService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)
		if err := repo.DeleteGroups(id); err != nil {
			return err
		}
		return repo.Delete(id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		logger.Error("Failed to delete catalog category", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}

	logger.Info("Catalog category deleted", map[string]interface{}{
		"category_id": id,
	})
	return nil
}

// UpdateGroups reconciles the category's tag groups against rows. Rows with
// a blank label or no tag are skipped; a flagged row with an id is deleted,
// a row with an id is updated, anything else is inserted.
func (s *catalogService) UpdateGroups(id uint, rows []TagGroupRow) (*GroupChanges, error) {
	if _, err := s.GetByID(id); err != nil {
		return nil, err
	}

	changes := &GroupChanges{}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)
		for _, row := range rows {
			if row.Skipped() {
				changes.Skipped++
				continue
			}

			group := &model.FrontCategoryTagGroup{
				ID:              row.ID,
				FrontCategoryID: id,
				Label:           strings.TrimSpace(row.Label),
				Description:     strings.TrimSpace(row.Description),
				TagID:           row.TagID,
				Order:           row.Order,
			}

			switch {
			case row.Delete && row.ID != 0:
				if err := repo.DeleteGroup(id, row.ID); err != nil {
					return err
				}
				changes.Deleted++
			case row.Delete:
				changes.Skipped++
			case row.ID != 0:
				if err := repo.UpdateGroup(group); err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return ErrTagGroupNotFound
					}
					return err
				}
				changes.Updated++
			default:
				group.ID = 0
				if err := repo.CreateGroup(group); err != nil {
					return err
				}
				changes.Created++
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update tag groups", err, map[string]interface{}{
			"category_id": id,
			"rows":        len(rows),
		})
		return nil, err
	}

	logger.Info("Tag groups updated", map[string]interface{}{
		"category_id": id,
		"created":     changes.Created,
		"updated":     changes.Updated,
		"deleted":     changes.Deleted,
		"skipped":     changes.Skipped,
	})
	return changes, nil
}

// Page loads an active category with its ACTIVE products bucketed by tag
// group. A product joins every group whose tag it carries; products without
// any group tag land in Other.
func (s *catalogService) Page(slug string) (*CatalogPage, error) {
	category, err := s.GetBySlug(slug, true)
	if err != nil {
		return nil, err
	}

	status := model.StatusActive
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{
		Category: category.BaseCategory,
		Status:   &status,
	})
	if err != nil {
		return nil, err
	}

	page := &CatalogPage{
		Category: category,
		Groups:   make([]CatalogGroup, 0, len(category.TagGroups)),
		Other:    []model.Product{},
		Total:    len(products),
	}
	for _, g := range category.TagGroups {
		page.Groups = append(page.Groups, CatalogGroup{Group: g, Products: []model.Product{}})
	}

	for _, p := range products {
		matched := false
		for _, tagID := range p.TagIDs() {
			for i := range page.Groups {
				if page.Groups[i].Group.TagID == tagID && !containsProduct(page.Groups[i].Products, p.ID) {
					page.Groups[i].Products = append(page.Groups[i].Products, p)
					matched = true
				}
			}
		}
		if !matched {
			page.Other = append(page.Other, p)
		}
	}
	return page, nil
}

func containsProduct(products []model.Product, id uint) bool {
	for _, p := range products {
		if p.ID == id {
			return true
		}
	}
	return false
}
