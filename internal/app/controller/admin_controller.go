package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/i18n"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
	"github.com/hengyuan-pack/giftbox-site/internal/render"
)

// AdminController renders the server-side admin screens.
type AdminController struct {
	pageService    service.PageService
	sectionService service.SectionService
	productService service.ProductService
	tagService     service.TagService
	catalogService service.CatalogService
	imageService   service.ImageService
	siteName       string
}

func NewAdminController(
	pageService service.PageService,
	sectionService service.SectionService,
	productService service.ProductService,
	tagService service.TagService,
	catalogService service.CatalogService,
	imageService service.ImageService,
	siteName string,
) *AdminController {
	return &AdminController{
		pageService:    pageService,
		sectionService: sectionService,
		productService: productService,
		tagService:     tagService,
		catalogService: catalogService,
		imageService:   imageService,
		siteName:       siteName,
	}
}

type DashboardView struct {
	User       string
	Pages      int
	Sections   int
	Products   int
	Tags       int
	Categories int
	Images     int
	Flash      string
}

type LoginView struct {
	Error string
	Next  string
}

func (ctrl *AdminController) view(c *gin.Context, title string, data interface{}) render.View {
	return render.View{
		Lang:     i18n.FromRequest(c),
		SiteName: ctrl.siteName,
		Title:    title,
		Path:     c.Request.URL.Path,
		Data:     data,
	}
}

// Dashboard GET /admin
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	view := DashboardView{
		User:  middleware.GetAdminUser(c),
		Flash: c.Query("error"),
	}
	counts := []struct {
		dst  *int
		load func() (int, error)
	}{
		{&view.Pages, func() (int, error) { v, err := ctrl.pageService.List(); return len(v), err }},
		{&view.Sections, func() (int, error) { v, err := ctrl.sectionService.List(); return len(v), err }},
		{&view.Products, func() (int, error) {
			v, err := ctrl.productService.List(service.ProductListOptions{})
			return len(v), err
		}},
		{&view.Tags, func() (int, error) { v, err := ctrl.tagService.List(); return len(v), err }},
		{&view.Categories, func() (int, error) { v, err := ctrl.catalogService.List(false); return len(v), err }},
		{&view.Images, func() (int, error) { v, err := ctrl.imageService.List(false); return len(v), err }},
	}
	for _, count := range counts {
		n, err := count.load()
		if err != nil {
			log.Error("Failed to load dashboard counts", err)
			c.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}
		*count.dst = n
	}

	c.HTML(http.StatusOK, "admin_dashboard", ctrl.view(c, "Admin", view))
}

// Login GET /admin/login
func (ctrl *AdminController) Login(c *gin.Context) {
	next := c.Query("next")
	if next == "" || next[0] != '/' || (len(next) > 1 && next[1] == '/') {
		next = "/admin"
	}
	c.HTML(http.StatusOK, "admin_login", ctrl.view(c, "Admin login", LoginView{
		Error: c.Query("error"),
		Next:  next,
	}))
}
