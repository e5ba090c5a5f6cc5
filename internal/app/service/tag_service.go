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
	ErrTagNotFound   = errors.New("tag not found")
	ErrTagSlugExists = errors.New("tag slug already exists")
)

type TagInput struct {
	Name string
	Slug string
}

func (in TagInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 80)),
	)
}

type TagService interface {
	List() ([]model.Tag, error)
	GetByID(id uint) (*model.Tag, error)
	Create(input TagInput) (*model.Tag, error)
	Update(id uint, input TagInput) (*model.Tag, error)
	Delete(id uint) error
}

type tagService struct {
	db      *gorm.DB
	tagRepo repository.TagRepository
}

func NewTagService(db *gorm.DB, tagRepo repository.TagRepository) TagService {
	return &tagService{db: db, tagRepo: tagRepo}
}

func (s *tagService) List() ([]model.Tag, error) {
	return s.tagRepo.FindAll()
}

func (s *tagService) GetByID(id uint) (*model.Tag, error) {
	tag, err := s.tagRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return tag, nil
}

func tagSlug(input TagInput) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		return util.Slugify(input.Name, "tag"), nil
	}
	if !util.IsSlug(slug) {
		return "", validation.Errors{"slug": errors.New("must contain only lowercase letters, digits and dashes")}
	}
	return slug, nil
}

func (s *tagService) Create(input TagInput) (*model.Tag, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	slug, err := tagSlug(input)
	if err != nil {
		return nil, err
	}

	tag := &model.Tag{Name: input.Name, Slug: slug}
	if err := s.tagRepo.Create(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTagSlugExists
		}
		return nil, err
	}

	logger.Info("Tag created", map[string]interface{}{
		"tag_id": tag.ID,
		"slug":   tag.Slug,
	})
	return tag, nil
}

func (s *tagService) Update(id uint, input TagInput) (*model.Tag, error) {
	tag, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Slug) == "" {
		input.Slug = tag.Slug
	}
	slug, err := tagSlug(input)
	if err != nil {
		return nil, err
	}

	tag.Name = input.Name
	tag.Slug = slug
	if err := s.tagRepo.Update(tag); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrTagSlugExists
		}
		return nil, err
	}
	return tag, nil
}

// Delete removes the tag together with its product links and the catalog
// groups bucketing by it.
func (s *tagService) Delete(id uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.tagRepo.WithTx(tx)
		if err := repo.DeleteProductLinks(id); err != nil {
			return err
		}
		if err := repo.DeleteCategoryGroups(id); err != nil {
			return err
		}
		return repo.Delete(id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		logger.Error("Failed to delete tag", err, map[string]interface{}{
			"tag_id": id,
		})
		return err
	}

	logger.Info("Tag deleted", map[string]interface{}{
		"tag_id": id,
	})
	return nil
}
