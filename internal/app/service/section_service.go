package service

import (
	"encoding/json"
	"errors"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrSectionNotFound    = errors.New("section not found")
	ErrInvalidSectionType = errors.New("invalid section type")
)

// SectionOrderStep is the gap Reorder leaves between sections.
const SectionOrderStep = 10

type SectionInput struct {
	Type    string
	Order   *int // nil appends after the last section
	Enabled bool
	Payload json.RawMessage
}

type SectionService interface {
	List() ([]model.HomeSection, error)
	ListEnabled() ([]model.HomeSection, error)
	GetByID(id uint) (*model.HomeSection, error)
	Create(input SectionInput) (*model.HomeSection, error)
	Update(id uint, input SectionInput) (*model.HomeSection, error)
	Delete(id uint) error
	Toggle(id uint) (*model.HomeSection, error)
	Reorder(ids []uint) error
}

type sectionService struct {
	db          *gorm.DB
	sectionRepo repository.HomeSectionRepository
}

func NewSectionService(db *gorm.DB, sectionRepo repository.HomeSectionRepository) SectionService {
	return &sectionService{db: db, sectionRepo: sectionRepo}
}

func (s *sectionService) List() ([]model.HomeSection, error) {
	return s.sectionRepo.FindAll(false)
}

func (s *sectionService) ListEnabled() ([]model.HomeSection, error) {
	return s.sectionRepo.FindAll(true)
}

func (s *sectionService) GetByID(id uint) (*model.HomeSection, error) {
	section, err := s.sectionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, err
	}
	return section, nil
}

func parseSectionInput(input SectionInput) (model.SectionType, datatypes.JSON, error) {
	sectionType, ok := model.ParseSectionType(input.Type)
	if !ok {
		return "", nil, ErrInvalidSectionType
	}
	if _, err := model.DecodeSectionPayload(sectionType, input.Payload); err != nil {
		return "", nil, err
	}
	if len(input.Payload) == 0 {
		return sectionType, datatypes.JSON("{}"), nil
	}
	return sectionType, datatypes.JSON(input.Payload), nil
}

func (s *sectionService) Create(input SectionInput) (*model.HomeSection, error) {
	sectionType, payload, err := parseSectionInput(input)
	if err != nil {
		return nil, err
	}

	section := &model.HomeSection{
		Type:    sectionType,
		Enabled: input.Enabled,
		Payload: payload,
	}
	if input.Order != nil && *input.Order >= 0 {
		section.Order = *input.Order
	} else {
		last, err := s.sectionRepo.MaxOrder()
		if err != nil {
			return nil, err
		}
		section.Order = last + SectionOrderStep
	}

	if err := s.sectionRepo.Create(section); err != nil {
		return nil, err
	}

	logger.Info("Home section created", map[string]interface{}{
		"section_id": section.ID,
		"type":       section.Type,
		"order":      section.Order,
	})
	return section, nil
}

func (s *sectionService) Update(id uint, input SectionInput) (*model.HomeSection, error) {
	section, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	sectionType, payload, err := parseSectionInput(input)
	if err != nil {
		return nil, err
	}
	section.Type = sectionType
	section.Payload = payload
	section.Enabled = input.Enabled
	if input.Order != nil && *input.Order >= 0 {
		section.Order = *input.Order
	}

	if err := s.sectionRepo.Update(section); err != nil {
		return nil, err
	}

	logger.Info("Home section updated", map[string]interface{}{
		"section_id": section.ID,
	})
	return section, nil
}

func (s *sectionService) Delete(id uint) error {
	if err := s.sectionRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSectionNotFound
		}
		return err
	}
	logger.Info("Home section deleted", map[string]interface{}{
		"section_id": id,
	})
	return nil
}

func (s *sectionService) Toggle(id uint) (*model.HomeSection, error) {
	section, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	section.Enabled = !section.Enabled
	if err := s.sectionRepo.SetEnabled(id, section.Enabled); err != nil {
		return nil, err
	}
	return section, nil
}

// Reorder assigns 10, 20, 30... in the submitted order. Sections not listed
// keep their current order.
func (s *sectionService) Reorder(ids []uint) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.sectionRepo.WithTx(tx)
		for i, id := range ids {
			if err := repo.UpdateOrder(id, (i+1)*SectionOrderStep); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrSectionNotFound
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to reorder home sections", err, map[string]interface{}{
			"ids": ids,
		})
		return err
	}

	logger.Info("Home sections reordered", map[string]interface{}{
		"count": len(ids),
	})
	return nil
}
