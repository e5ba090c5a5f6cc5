package service

import (
	"encoding/json"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"github.com/hengyuan-pack/giftbox-site/pkg/util"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrPageNotFound      = errors.New("page not found")
	ErrDefaultPageDelete = errors.New("default pages cannot be deleted")
	ErrPageSlugExists    = errors.New("page slug already exists")
	ErrInvalidPageType   = errors.New("invalid page type")
	ErrInvalidToggle     = errors.New("invalid toggle field")
	ErrInvalidDirection  = errors.New("invalid move direction")
)

// PageOrderStep is the gap between neighbouring page orders.
const PageOrderStep = 15

type MoveDirection string

const (
	MoveUp   MoveDirection = "up"
	MoveDown MoveDirection = "down"
)

type PageToggle string

const (
	ToggleEnabled PageToggle = "enabled"
	ToggleNav     PageToggle = "nav"
)

type PageInput struct {
	Slug       string
	Type       string
	IsEnabled  bool
	ShowInNav  bool
	Order      *int // nil keeps the stored order, 0 on create
	NavLabelZh string
	NavLabelEn string
	LabelZh    string
	LabelEn    string
	TitleZh    string
	TitleEn    string
	DescZh     string
	DescEn     string
	PageData   json.RawMessage // nil keeps the stored data while the type is unchanged
}

func (in PageInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Slug, validation.Required, validation.Length(1, 120),
			validation.By(func(interface{}) error {
				if !util.IsSlug(in.Slug) {
					return errors.New("must contain only lowercase letters, digits and dashes")
				}
				return nil
			})),
		validation.Field(&in.Type, validation.Required),
		validation.Field(&in.Order, validation.Min(0)),
	)
}

type PageService interface {
	List() ([]model.SitePage, error)
	Nav() ([]model.SitePage, error)
	GetByID(id uint) (*model.SitePage, error)
	GetBySlug(slug string, enabledOnly bool) (*model.SitePage, error)
	GetByType(pageType model.PageType) (*model.SitePage, error)
	Create(input PageInput) (*model.SitePage, error)
	Update(id uint, input PageInput) (*model.SitePage, error)
	Delete(id uint) error
	Toggle(id uint, field PageToggle) (*model.SitePage, error)
	Move(id uint, direction MoveDirection) (*model.SitePage, error)
}

type pageService struct {
	db       *gorm.DB
	pageRepo repository.SitePageRepository
}

func NewPageService(db *gorm.DB, pageRepo repository.SitePageRepository) PageService {
	return &pageService{db: db, pageRepo: pageRepo}
}

func (s *pageService) List() ([]model.SitePage, error) {
	pages, err := s.pageRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list pages", err)
		return nil, err
	}
	return pages, nil
}

func (s *pageService) Nav() ([]model.SitePage, error) {
	pages, err := s.pageRepo.FindNav()
	if err != nil {
		logger.Error("Failed to list nav pages", err)
		return nil, err
	}
	return pages, nil
}

func (s *pageService) GetByID(id uint) (*model.SitePage, error) {
	page, err := s.pageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return page, nil
}

func (s *pageService) GetBySlug(slug string, enabledOnly bool) (*model.SitePage, error) {
	page, err := s.pageRepo.FindBySlug(strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	if enabledOnly && !page.IsEnabled {
		return nil, ErrPageNotFound
	}
	return page, nil
}

// GetByType returns the first enabled page of the given type.
func (s *pageService) GetByType(pageType model.PageType) (*model.SitePage, error) {
	page, err := s.pageRepo.FindFirstByType(pageType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	if !page.IsEnabled {
		return nil, ErrPageNotFound
	}
	return page, nil
}

func (s *pageService) normalize(input PageInput) (PageInput, model.PageType, error) {
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	if input.Order != nil && *input.Order < 0 {
		zero := 0
		input.Order = &zero
	}
	if err := input.Validate(); err != nil {
		return input, "", err
	}

	pageType, ok := model.ParsePageType(input.Type)
	if !ok {
		return input, "", ErrInvalidPageType
	}
	if _, err := model.DecodePageData(pageType, input.PageData); err != nil {
		return input, "", err
	}
	return input, pageType, nil
}

func applyPageInput(page *model.SitePage, input PageInput, pageType model.PageType) {
	typeChanged := page.Type != pageType
	page.Slug = input.Slug
	page.Type = pageType
	page.IsEnabled = input.IsEnabled
	page.ShowInNav = input.ShowInNav
	if input.Order != nil {
		page.Order = *input.Order
	}
	page.NavLabelZh = strings.TrimSpace(input.NavLabelZh)
	page.NavLabelEn = strings.TrimSpace(input.NavLabelEn)
	page.LabelZh = strings.TrimSpace(input.LabelZh)
	page.LabelEn = strings.TrimSpace(input.LabelEn)
	page.TitleZh = strings.TrimSpace(input.TitleZh)
	page.TitleEn = strings.TrimSpace(input.TitleEn)
	page.DescZh = input.DescZh
	page.DescEn = input.DescEn
	switch {
	case len(input.PageData) > 0:
		page.PageData = datatypes.JSON(input.PageData)
	case typeChanged || len(page.PageData) == 0:
		page.PageData = datatypes.JSON("{}")
	}
}

func (s *pageService) Create(input PageInput) (*model.SitePage, error) {
	input, pageType, err := s.normalize(input)
	if err != nil {
		return nil, err
	}

	page := &model.SitePage{}
	applyPageInput(page, input, pageType)

	if err := s.pageRepo.Create(page); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPageSlugExists
		}
		return nil, err
	}

	logger.Info("Page created", map[string]interface{}{
		"page_id": page.ID,
		"slug":    page.Slug,
		"type":    page.Type,
	})
	return page, nil
}

func (s *pageService) Update(id uint, input PageInput) (*model.SitePage, error) {
	page, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	// the route of a default page is fixed
	if page.IsDefault {
		input.Type = string(page.Type)
		input.Slug = page.Slug
	}
	input, pageType, err := s.normalize(input)
	if err != nil {
		return nil, err
	}
	applyPageInput(page, input, pageType)

	if err := s.pageRepo.Update(page); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrPageSlugExists
		}
		return nil, err
	}

	logger.Info("Page updated", map[string]interface{}{
		"page_id": page.ID,
		"slug":    page.Slug,
	})
	return page, nil
}

func (s *pageService) Delete(id uint) error {
	page, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if page.IsDefault {
		logger.Warn("Refusing to delete default page", map[string]interface{}{
			"page_id": id,
			"slug":    page.Slug,
		})
		return ErrDefaultPageDelete
	}

	if err := s.pageRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPageNotFound
		}
		return err
	}

	logger.Info("Page deleted", map[string]interface{}{
		"page_id": id,
		"slug":    page.Slug,
	})
	return nil
}

func (s *pageService) Toggle(id uint, field PageToggle) (*model.SitePage, error) {
	page, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	var column string
	switch field {
	case ToggleEnabled:
		page.IsEnabled = !page.IsEnabled
		column = "is_enabled"
		err = s.pageRepo.UpdateColumns(id, map[string]interface{}{column: page.IsEnabled})
	case ToggleNav:
		page.ShowInNav = !page.ShowInNav
		column = "show_in_nav"
		err = s.pageRepo.UpdateColumns(id, map[string]interface{}{column: page.ShowInNav})
	default:
		return nil, ErrInvalidToggle
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Page toggled", map[string]interface{}{
		"page_id": id,
		"column":  column,
	})
	return page, nil
}

// Move shifts a page by one step. Moving up from 0 is a no-op; when the step
// would leave the non-negative range, every page is first re-sequenced to
// 15, 30, 45... in its current order.
func (s *pageService) Move(id uint, direction MoveDirection) (*model.SitePage, error) {
	if direction != MoveUp && direction != MoveDown {
		return nil, ErrInvalidDirection
	}

	var moved *model.SitePage
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.pageRepo.WithTx(tx)

		page, err := repo.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPageNotFound
			}
			return err
		}

		if direction == MoveUp {
			if page.Order <= 0 {
				moved = page
				return nil
			}
			if page.Order-PageOrderStep < 0 {
				if err := resequencePages(repo); err != nil {
					return err
				}
				if page, err = repo.FindByID(id); err != nil {
					return err
				}
			}
			page.Order -= PageOrderStep
		} else {
			page.Order += PageOrderStep
		}

		if err := repo.UpdateOrder(page.ID, page.Order); err != nil {
			return err
		}
		moved = page
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Page moved", map[string]interface{}{
		"page_id":   id,
		"direction": direction,
		"order":     moved.Order,
	})
	return moved, nil
}

func resequencePages(repo repository.SitePageRepository) error {
	pages, err := repo.FindAll()
	if err != nil {
		return err
	}
	for i, p := range pages {
		if err := repo.UpdateOrder(p.ID, (i+1)*PageOrderStep); err != nil {
			return err
		}
	}
	logger.Info("Page orders re-sequenced", map[string]interface{}{
		"count": len(pages),
	})
	return nil
}
