package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ErrInvalidPayload marks JSON that does not decode into the variant for its type.
var ErrInvalidPayload = errors.New("invalid payload")

// PageContent is the typed form of SitePage.PageData, one variant per PageType.
type PageContent interface {
	validation.Validatable
	pageType() PageType
}

// SectionContent is the typed form of HomeSection.Payload, one variant per SectionType.
type SectionContent interface {
	validation.Validatable
	sectionType() SectionType
}

// Shared fragments

type Stat struct {
	LabelZh string `json:"label_zh"`
	LabelEn string `json:"label_en"`
	Value   string `json:"value"`
}

func (s Stat) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.LabelZh, validation.Required),
		validation.Field(&s.Value, validation.Required),
	)
}

// TextItem is a titled paragraph: company values, workflow steps, "why us" cards.
type TextItem struct {
	TitleZh string `json:"title_zh"`
	TitleEn string `json:"title_en"`
	DescZh  string `json:"desc_zh"`
	DescEn  string `json:"desc_en"`
	Icon    string `json:"icon,omitempty"`
}

func (t TextItem) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.TitleZh, validation.Required),
	)
}

type ImageRef struct {
	URL     string `json:"url"`
	AltZh   string `json:"alt_zh,omitempty"`
	AltEn   string `json:"alt_en,omitempty"`
	Caption string `json:"caption,omitempty"`
}

func (i ImageRef) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.URL, validation.Required),
	)
}

// Page variants

type HomePageData struct{}

func (HomePageData) pageType() PageType { return PageTypeHomepage }
func (HomePageData) Validate() error    { return nil }

type AboutPageData struct {
	IntroZh string     `json:"intro_zh"` // newline-delimited paragraphs
	IntroEn string     `json:"intro_en"`
	Stats   []Stat     `json:"stats"`
	Values  []TextItem `json:"values"`
	Images  []ImageRef `json:"images"`
}

func (AboutPageData) pageType() PageType { return PageTypeAbout }

func (d AboutPageData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Stats),
		validation.Field(&d.Values),
		validation.Field(&d.Images),
	)
}

type FactoryPageData struct {
	IntroZh        string     `json:"intro_zh"`
	IntroEn        string     `json:"intro_en"`
	Workflow       []TextItem `json:"workflow"`
	CapabilitiesZh string     `json:"capabilities_zh"` // newline-delimited list
	CapabilitiesEn string     `json:"capabilities_en"`
	Stats          []Stat     `json:"stats"`
	Images         []ImageRef `json:"images"`
}

func (FactoryPageData) pageType() PageType { return PageTypeFactory }

func (d FactoryPageData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Workflow),
		validation.Field(&d.Stats),
		validation.Field(&d.Images),
	)
}

type ContactPageData struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	WhatsApp  string `json:"whatsapp"`
	WeChat    string `json:"wechat"`
	AddressZh string `json:"address_zh"`
	AddressEn string `json:"address_en"`
	HoursZh   string `json:"hours_zh"`
	HoursEn   string `json:"hours_en"`
	MapURL    string `json:"mapUrl"`
}

func (ContactPageData) pageType() PageType { return PageTypeContact }

func (d ContactPageData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Email, is.EmailFormat),
		validation.Field(&d.MapURL, is.URL),
	)
}

type ProductsPageData struct {
	IntroZh string `json:"intro_zh"`
	IntroEn string `json:"intro_en"`
}

func (ProductsPageData) pageType() PageType { return PageTypeProducts }
func (ProductsPageData) Validate() error    { return nil }

type CustomPageData struct {
	BodyZh string `json:"body_zh"` // markdown
	BodyEn string `json:"body_en"`
}

func (CustomPageData) pageType() PageType { return PageTypeCustom }
func (CustomPageData) Validate() error    { return nil }

type CasePageData struct {
	Client string     `json:"client"`
	BodyZh string     `json:"body_zh"`
	BodyEn string     `json:"body_en"`
	Images []ImageRef `json:"images"`
}

func (CasePageData) pageType() PageType { return PageTypeCase }

func (d CasePageData) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Images),
	)
}

// Section variants

type HeroPayload struct {
	TitleZh    string `json:"title_zh"`
	TitleEn    string `json:"title_en"`
	SubtitleZh string `json:"subtitle_zh"`
	SubtitleEn string `json:"subtitle_en"`
	Image      string `json:"image"`
	CTALabelZh string `json:"ctaLabel_zh"`
	CTALabelEn string `json:"ctaLabel_en"`
	CTAHref    string `json:"ctaHref"`
}

func (HeroPayload) sectionType() SectionType { return SectionHero }

func (p HeroPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.TitleZh, validation.Required),
		validation.Field(&p.CTAHref, validation.When(p.CTALabelZh != "", validation.Required)),
	)
}

type WhyPayload struct {
	TitleZh string     `json:"title_zh"`
	TitleEn string     `json:"title_en"`
	Items   []TextItem `json:"items"`
}

func (WhyPayload) sectionType() SectionType { return SectionWhy }

func (p WhyPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.TitleZh, validation.Required),
		validation.Field(&p.Items),
	)
}

type ProductsPayload struct {
	TitleZh       string   `json:"title_zh"`
	TitleEn       string   `json:"title_en"`
	CategorySlugs []string `json:"categorySlugs"` // front categories shown as cards
	Limit         int      `json:"limit"`
}

func (ProductsPayload) sectionType() SectionType { return SectionProducts }

func (p ProductsPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Limit, validation.Min(0), validation.Max(48)),
	)
}

type FactoryPayload struct {
	TitleZh string     `json:"title_zh"`
	TitleEn string     `json:"title_en"`
	DescZh  string     `json:"desc_zh"`
	DescEn  string     `json:"desc_en"`
	Stats   []Stat     `json:"stats"`
	Images  []ImageRef `json:"images"`
}

func (FactoryPayload) sectionType() SectionType { return SectionFactory }

func (p FactoryPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Stats),
		validation.Field(&p.Images),
	)
}

type BlogPost struct {
	TitleZh string `json:"title_zh"`
	TitleEn string `json:"title_en"`
	Href    string `json:"href"`
	Image   string `json:"image"`
	Date    string `json:"date"`
}

func (b BlogPost) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.TitleZh, validation.Required),
		validation.Field(&b.Href, validation.Required),
	)
}

type BlogPayload struct {
	TitleZh string     `json:"title_zh"`
	TitleEn string     `json:"title_en"`
	Posts   []BlogPost `json:"posts"`
}

func (BlogPayload) sectionType() SectionType { return SectionBlog }

func (p BlogPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Posts),
	)
}

type CTAPayload struct {
	TitleZh       string `json:"title_zh"`
	TitleEn       string `json:"title_en"`
	DescZh        string `json:"desc_zh"`
	DescEn        string `json:"desc_en"`
	ButtonLabelZh string `json:"buttonLabel_zh"`
	ButtonLabelEn string `json:"buttonLabel_en"`
	Href          string `json:"href"`
}

func (CTAPayload) sectionType() SectionType { return SectionCTA }

func (p CTAPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.TitleZh, validation.Required),
		validation.Field(&p.Href, validation.Required),
	)
}

type RichTextPayload struct {
	BodyZh string `json:"body_zh"` // markdown
	BodyEn string `json:"body_en"`
}

func (RichTextPayload) sectionType() SectionType { return SectionRichText }

func (p RichTextPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.BodyZh, validation.Required),
	)
}

// DecodePageData turns raw JSON into the variant for t and validates it.
// Empty input yields the zero variant.
func DecodePageData(t PageType, raw []byte) (PageContent, error) {
	var content PageContent
	switch t {
	case PageTypeHomepage:
		content = &HomePageData{}
	case PageTypeAbout:
		content = &AboutPageData{}
	case PageTypeFactory:
		content = &FactoryPageData{}
	case PageTypeContact:
		content = &ContactPageData{}
	case PageTypeProducts:
		content = &ProductsPageData{}
	case PageTypeCustom:
		content = &CustomPageData{}
	case PageTypeCase:
		content = &CasePageData{}
	default:
		return nil, fmt.Errorf("unknown page type %q", t)
	}
	if err := decodeStrict(raw, content); err != nil {
		return nil, fmt.Errorf("%w: page data for %s: %v", ErrInvalidPayload, t, err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return content, nil
}

// DecodeSectionPayload turns raw JSON into the variant for t and validates it.
func DecodeSectionPayload(t SectionType, raw []byte) (SectionContent, error) {
	var content SectionContent
	switch t {
	case SectionHero:
		content = &HeroPayload{}
	case SectionWhy:
		content = &WhyPayload{}
	case SectionProducts:
		content = &ProductsPayload{}
	case SectionFactory:
		content = &FactoryPayload{}
	case SectionBlog:
		content = &BlogPayload{}
	case SectionCTA:
		content = &CTAPayload{}
	case SectionRichText:
		content = &RichTextPayload{}
	default:
		return nil, fmt.Errorf("unknown section type %q", t)
	}
	if err := decodeStrict(raw, content); err != nil {
		return nil, fmt.Errorf("%w: payload for %s: %v", ErrInvalidPayload, t, err)
	}
	if err := content.Validate(); err != nil {
		return nil, err
	}
	return content, nil
}

func decodeStrict(raw []byte, dst interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
