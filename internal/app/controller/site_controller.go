package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/cache"
	apperrors "github.com/hengyuan-pack/giftbox-site/internal/errors"
	"github.com/hengyuan-pack/giftbox-site/internal/i18n"
	"github.com/hengyuan-pack/giftbox-site/internal/metrics"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
	"github.com/hengyuan-pack/giftbox-site/internal/render"
)

const langCookieMaxAge = 365 * 24 * 60 * 60

// errNotFound renders the 404 page from any site handler.
var errNotFound = errors.New("not found")

// SiteController renders the public HTML pages through the render cache.
type SiteController struct {
	pageService    service.PageService
	sectionService service.SectionService
	productService service.ProductService
	catalogService service.CatalogService
	renderer       *render.Renderer
	cache          cache.PageCache
	siteName       string
}

func NewSiteController(
	pageService service.PageService,
	sectionService service.SectionService,
	productService service.ProductService,
	catalogService service.CatalogService,
	renderer *render.Renderer,
	pageCache cache.PageCache,
	siteName string,
) *SiteController {
	return &SiteController{
		pageService:    pageService,
		sectionService: sectionService,
		productService: productService,
		catalogService: catalogService,
		renderer:       renderer,
		cache:          pageCache,
		siteName:       siteName,
	}
}

// page is what a site handler builds before rendering.
type page struct {
	template    string
	title       string
	description string
	data        interface{}
}

type SectionView struct {
	Type       model.SectionType
	Content    model.SectionContent
	Categories []model.FrontCategory
}

type HomeView struct {
	Page     *model.SitePage
	Sections []SectionView
}

type PageView struct {
	Page    *model.SitePage
	Content model.PageContent
}

type ProductsView struct {
	Page       *model.SitePage
	Content    *model.ProductsPageData
	Products   []model.Product
	Categories []model.FrontCategory
}

type ProductView struct {
	Product *model.Product
}

// serve answers from the cache or builds, renders and stores the page.
func (ctrl *SiteController) serve(c *gin.Context, build func(lang i18n.Lang) (*page, error)) {
	log := middleware.GetLoggerFromContext(c)
	lang := i18n.FromRequest(c)
	if q := c.Query("lang"); q != "" {
		c.SetCookie(i18n.CookieName, lang.String(), langCookieMaxAge, "/", "", false, false)
	}

	path := c.Request.URL.Path
	cacheable := onlyLangQuery(c)
	ctx := c.Request.Context()

	if cacheable {
		if body, ok := ctrl.cache.Get(ctx, lang, path); ok {
			metrics.RecordCacheLookup(true)
			c.Header("X-Render-Cache", "hit")
			c.Data(http.StatusOK, "text/html; charset=utf-8", body)
			return
		}
		metrics.RecordCacheLookup(false)
	}

	p, err := build(lang)
	if err != nil {
		if isNotFound(err) {
			ctrl.notFound(c, lang)
			return
		}
		log.Error("Failed to build page", err, map[string]interface{}{
			"path": path,
		})
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	body, err := ctrl.renderer.Bytes(p.template, ctrl.view(c, lang, p))
	if err != nil {
		log.Error("Failed to render page", err, map[string]interface{}{
			"path":     path,
			"template": p.template,
		})
		c.String(http.StatusInternalServerError, "Internal Server Error")
		return
	}

	if cacheable {
		if err := ctrl.cache.Set(ctx, lang, path, body); err != nil {
			log.Warn("Failed to store render", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
	c.Header("X-Render-Cache", "miss")
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}

func (ctrl *SiteController) view(c *gin.Context, lang i18n.Lang, p *page) render.View {
	return render.View{
		Lang:        lang,
		SiteName:    ctrl.siteName,
		Title:       p.title,
		Description: p.description,
		Path:        c.Request.URL.Path,
		Nav:         ctrl.nav(c, lang),
		Data:        p.data,
	}
}

func (ctrl *SiteController) nav(c *gin.Context, lang i18n.Lang) []render.NavItem {
	pages, err := ctrl.pageService.Nav()
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Failed to load navigation", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	current := c.Request.URL.Path
	items := make([]render.NavItem, 0, len(pages))
	for _, p := range pages {
		path := p.Path()
		items = append(items, render.NavItem{
			Label:  navLabel(lang, p),
			Href:   path + "?lang=" + lang.String(),
			Active: path == current || (path != "/" && strings.HasPrefix(current, path+"/")),
		})
	}
	return items
}

func (ctrl *SiteController) notFound(c *gin.Context, lang i18n.Lang) {
	body, err := ctrl.renderer.Bytes("not_found", ctrl.view(c, lang, &page{title: "404"}))
	if err != nil {
		c.String(http.StatusNotFound, "Not Found")
		return
	}
	c.Data(http.StatusNotFound, "text/html; charset=utf-8", body)
}

// NoRoute renders the 404 page for unknown public paths.
func (ctrl *SiteController) NoRoute(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Not found")
		return
	}
	ctrl.notFound(c, i18n.FromRequest(c))
}

func isNotFound(err error) bool {
	for _, target := range []error{
		errNotFound,
		service.ErrPageNotFound,
		service.ErrProductNotFound,
		service.ErrCategoryNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func onlyLangQuery(c *gin.Context) bool {
	for key := range c.Request.URL.Query() {
		if key != "lang" {
			return false
		}
	}
	return true
}

func pageMeta(lang i18n.Lang, p *model.SitePage) (string, string) {
	if p == nil {
		return "", ""
	}
	return i18n.Pick(lang, p.TitleZh, p.TitleEn), i18n.Pick(lang, p.DescZh, p.DescEn)
}

// Home GET /
func (ctrl *SiteController) Home(c *gin.Context) {
	ctrl.serve(c, func(lang i18n.Lang) (*page, error) {
		home, err := ctrl.pageService.GetByType(model.PageTypeHomepage)
		if err != nil && !errors.Is(err, service.ErrPageNotFound) {
			return nil, err
		}

		sections, err := ctrl.sectionService.ListEnabled()
		if err != nil {
			return nil, err
		}

		view := HomeView{Page: home, Sections: make([]SectionView, 0, len(sections))}
		for _, s := range sections {
			content, err := model.DecodeSectionPayload(s.Type, s.Payload)
			if err != nil {
				middleware.GetLoggerFromContext(c).Warn("Skipping section with invalid payload", map[string]interface{}{
					"section_id": s.ID,
					"error":      err.Error(),
				})
				continue
			}
			sv := SectionView{Type: s.Type, Content: content}
			if products, ok := content.(*model.ProductsPayload); ok {
				if sv.Categories, err = ctrl.sectionCategories(products); err != nil {
					return nil, err
				}
			}
			view.Sections = append(view.Sections, sv)
		}

		title, desc := pageMeta(lang, home)
		return &page{template: "home", title: title, description: desc, data: view}, nil
	})
}

// sectionCategories resolves the cards of a PRODUCTS section: the listed
// slugs in order, or every active category when none are listed.
func (ctrl *SiteController) sectionCategories(p *model.ProductsPayload) ([]model.FrontCategory, error) {
	var categories []model.FrontCategory
	var err error
	if len(p.CategorySlugs) > 0 {
		categories, err = ctrl.catalogService.ListBySlugs(p.CategorySlugs)
	} else {
		categories, err = ctrl.catalogService.List(true)
	}
	if err != nil {
		return nil, err
	}
	if p.Limit > 0 && len(categories) > p.Limit {
		categories = categories[:p.Limit]
	}
	return categories, nil
}

func (ctrl *SiteController) typedPage(c *gin.Context, pageType model.PageType, template string) {
	ctrl.serve(c, func(lang i18n.Lang) (*page, error) {
		p, err := ctrl.pageService.GetByType(pageType)
		if err != nil {
			return nil, err
		}
		title, desc := pageMeta(lang, p)
		return &page{
			template:    template,
			title:       title,
			description: desc,
			data:        PageView{Page: p, Content: storedPageContent(p)},
		}, nil
	})
}

// About GET /about
func (ctrl *SiteController) About(c *gin.Context) {
	ctrl.typedPage(c, model.PageTypeAbout, "about")
}

// Factory GET /factory
func (ctrl *SiteController) Factory(c *gin.Context) {
	ctrl.typedPage(c, model.PageTypeFactory, "factory")
}

// Contact GET /contact
func (ctrl *SiteController) Contact(c *gin.Context) {
	ctrl.typedPage(c, model.PageTypeContact, "contact")
}

// Products GET /products?category=
func (ctrl *SiteController) Products(c *gin.Context) {
	ctrl.serve(c, func(lang i18n.Lang) (*page, error) {
		listing, err := ctrl.pageService.GetByType(model.PageTypeProducts)
		if err != nil && !errors.Is(err, service.ErrPageNotFound) {
			return nil, err
		}

		var category *model.ProductCategory
		if raw := c.Query("category"); raw != "" {
			parsed, ok := model.ParseProductCategory(raw)
			if !ok {
				return nil, errNotFound
			}
			category = &parsed
		}

		products, err := ctrl.productService.ListActive(category)
		if err != nil {
			return nil, err
		}
		categories, err := ctrl.catalogService.List(true)
		if err != nil {
			return nil, err
		}

		view := ProductsView{Page: listing, Products: products, Categories: categories}
		if listing != nil {
			if content, ok := storedPageContent(listing).(*model.ProductsPageData); ok {
				view.Content = content
			}
		}
		title, desc := pageMeta(lang, listing)
		if title == "" {
			title = i18n.Pick(lang, "产品中心", "Products")
		}
		return &page{template: "products", title: title, description: desc, data: view}, nil
	})
}

// Product GET /products/:slug
func (ctrl *SiteController) Product(c *gin.Context) {
	ctrl.serve(c, func(lang i18n.Lang) (*page, error) {
		product, err := ctrl.productService.GetBySlug(c.Param("slug"))
		if err != nil {
			return nil, err
		}
		return &page{
			template:    "product",
			title:       product.Name,
			description: product.ShortDesc,
			data:        ProductView{Product: product},
		}, nil
	})
}

// Catalog GET /catalog/:slug
func (ctrl *SiteController) Catalog(c *gin.Context) {
	ctrl.serve(c, func(lang i18n.Lang) (*page, error) {
		catalog, err := ctrl.catalogService.Page(c.Param("slug"))
		if err != nil {
			return nil, err
		}
		category := catalog.Category
		return &page{
			template:    "catalog",
			title:       i18n.Pick(lang, category.HeroTitleZh, category.HeroTitleEn),
			description: i18n.Pick(lang, category.HeroDescZh, category.HeroDescEn),
			data:        catalog,
		}, nil
	})
}

// CustomPage GET /p/:slug renders CUSTOM and CASE pages.
func (ctrl *SiteController) CustomPage(c *gin.Context) {
	ctrl.serve(c, func(lang i18n.Lang) (*page, error) {
		p, err := ctrl.pageService.GetBySlug(c.Param("slug"), true)
		if err != nil {
			return nil, err
		}
		template := "page"
		switch p.Type {
		case model.PageTypeCustom:
		case model.PageTypeCase:
			template = "case"
		default:
			return nil, errNotFound
		}
		title, desc := pageMeta(lang, p)
		return &page{
			template:    template,
			title:       title,
			description: desc,
			data:        PageView{Page: p, Content: storedPageContent(p)},
		}, nil
	})
}
