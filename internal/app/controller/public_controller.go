package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/i18n"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
)

// PublicController serves the read-only JSON API behind the public site.
type PublicController struct {
	pageService service.PageService
}

func NewPublicController(pageService service.PageService) *PublicController {
	return &PublicController{pageService: pageService}
}

type NavEntry struct {
	Slug  string         `json:"slug"`
	Type  model.PageType `json:"type"`
	Href  string         `json:"href"`
	Label string         `json:"label"`
}

// PageProjection is a page resolved to one language.
type PageProjection struct {
	ID          uint              `json:"id"`
	Slug        string            `json:"slug"`
	Type        model.PageType    `json:"type"`
	Path        string            `json:"path"`
	Lang        i18n.Lang         `json:"lang"`
	Label       string            `json:"label"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Data        model.PageContent `json:"data"`
}

// navLabel falls back from the nav label to the label, then the title.
func navLabel(lang i18n.Lang, p model.SitePage) string {
	for _, pair := range [][2]string{
		{p.NavLabelZh, p.NavLabelEn},
		{p.LabelZh, p.LabelEn},
		{p.TitleZh, p.TitleEn},
	} {
		if label := i18n.Pick(lang, pair[0], pair[1]); label != "" {
			return label
		}
	}
	return p.Slug
}

// storedPageContent decodes a saved blob; rows written before a schema change
// render with the empty variant instead of failing the page.
func storedPageContent(p *model.SitePage) model.PageContent {
	content, err := model.DecodePageData(p.Type, p.PageData)
	if err != nil {
		logger.Warn("Stored page data does not match its type", map[string]interface{}{
			"page_id": p.ID,
			"type":    p.Type,
			"error":   err.Error(),
		})
		content, _ = model.DecodePageData(p.Type, nil)
	}
	return content
}

func projectPage(lang i18n.Lang, p *model.SitePage) *PageProjection {
	return &PageProjection{
		ID:          p.ID,
		Slug:        p.Slug,
		Type:        p.Type,
		Path:        p.Path(),
		Lang:        lang,
		Label:       i18n.Pick(lang, p.LabelZh, p.LabelEn),
		Title:       i18n.Pick(lang, p.TitleZh, p.TitleEn),
		Description: i18n.Pick(lang, p.DescZh, p.DescEn),
		Data:        storedPageContent(p),
	}
}

// Nav GET /api/nav
func (ctrl *PublicController) Nav(c *gin.Context) {
	lang := i18n.FromRequest(c)
	pages, err := ctrl.pageService.Nav()
	if err != nil {
		respondError(c, err, "load navigation")
		return
	}

	entries := make([]NavEntry, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, NavEntry{
			Slug:  p.Slug,
			Type:  p.Type,
			Href:  p.Path(),
			Label: navLabel(lang, p),
		})
	}
	respondOK(c, http.StatusOK, entries)
}

// Page GET /api/pages/:slug
func (ctrl *PublicController) Page(c *gin.Context) {
	page, err := ctrl.pageService.GetBySlug(c.Param("slug"), true)
	ctrl.respondPage(c, page, err)
}

// Contact GET /api/pages/contact
func (ctrl *PublicController) Contact(c *gin.Context) {
	page, err := ctrl.pageService.GetByType(model.PageTypeContact)
	ctrl.respondPage(c, page, err)
}

// Factory GET /api/pages/factory
func (ctrl *PublicController) Factory(c *gin.Context) {
	page, err := ctrl.pageService.GetByType(model.PageTypeFactory)
	ctrl.respondPage(c, page, err)
}

func (ctrl *PublicController) respondPage(c *gin.Context, page *model.SitePage, err error) {
	if err != nil {
		respondError(c, err, "load page")
		return
	}
	respondOK(c, http.StatusOK, projectPage(i18n.FromRequest(c), page))
}
