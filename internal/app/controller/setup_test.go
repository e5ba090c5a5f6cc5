package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/config"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/cache"
	"github.com/hengyuan-pack/giftbox-site/internal/db"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
	"github.com/hengyuan-pack/giftbox-site/internal/render"
	"github.com/hengyuan-pack/giftbox-site/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testBaseURL = "https://cdn.example.com/assets"

type testApp struct {
	db     *gorm.DB
	router *gin.Engine
	cache  *cache.MemoryCache
	store  *storage.MemoryStorage
}

func setupTestApp(t *testing.T) *testApp {
	return setupTestAppWith(t, nil)
}

// setupTestAppWith lets a test swap the product repository, e.g. for one
// that fails a single call.
func setupTestAppWith(t *testing.T, wrapProducts func(repository.ProductRepository) repository.ProductRepository) *testApp {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	require.NoError(t, db.SeedDefaults(testDB, &config.AdminConfig{}))

	pageCache := cache.NewMemoryCache(time.Hour)
	revalidator := cache.NewRevalidator(pageCache, nil)
	renderer, err := render.New()
	require.NoError(t, err)
	store := storage.NewMemoryStorage(testBaseURL)

	pageRepo := repository.NewSitePageRepository(testDB)
	sectionRepo := repository.NewHomeSectionRepository(testDB)
	var productRepo repository.ProductRepository = repository.NewProductRepository(testDB)
	if wrapProducts != nil {
		productRepo = wrapProducts(productRepo)
	}
	tagRepo := repository.NewTagRepository(testDB)
	categoryRepo := repository.NewFrontCategoryRepository(testDB)
	imageRepo := repository.NewImageRepository(testDB)

	pageService := service.NewPageService(testDB, pageRepo)
	sectionService := service.NewSectionService(testDB, sectionRepo)
	productService := service.NewProductService(testDB, productRepo, tagRepo)
	tagService := service.NewTagService(testDB, tagRepo)
	catalogService := service.NewCatalogService(testDB, categoryRepo, productRepo)
	imageService := service.NewImageService(imageRepo, store)

	pages := NewPageController(pageService, revalidator)
	sections := NewSectionController(sectionService, revalidator)
	products := NewProductController(productService, revalidator)
	tags := NewTagController(tagService, revalidator)
	catalog := NewCatalogController(catalogService, revalidator)
	images := NewImageController(imageService, revalidator)
	translate := NewTranslateController(service.NewTranslator(config.TranslateConfig{}))
	public := NewPublicController(pageService)
	site := NewSiteController(pageService, sectionService, productService, catalogService, renderer, pageCache, "Test Packaging")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HTMLRender = renderer
	router.Use(middleware.LoggingMiddleware())

	router.GET("/api/nav", public.Nav)
	router.GET("/api/pages/contact", public.Contact)
	router.GET("/api/pages/:slug", public.Page)

	admin := router.Group("/api/admin")
	admin.GET("/pages", pages.List)
	admin.POST("/pages", pages.Create)
	admin.PUT("/pages/:id", pages.Update)
	admin.DELETE("/pages/:id", pages.Delete)
	admin.POST("/pages/:id/toggle", pages.Toggle)
	admin.POST("/pages/:id/move", pages.Move)
	admin.GET("/sections", sections.List)
	admin.POST("/sections", sections.Create)
	admin.POST("/sections/reorder", sections.Reorder)
	admin.PUT("/sections/:id", sections.Update)
	admin.DELETE("/sections/:id", sections.Delete)
	admin.POST("/sections/:id/toggle", sections.Toggle)
	admin.GET("/products", products.List)
	admin.POST("/products", products.Create)
	admin.GET("/products/:id", products.Get)
	admin.PUT("/products/:id", products.Update)
	admin.DELETE("/products/:id", products.Delete)
	admin.GET("/tags", tags.List)
	admin.POST("/tags", tags.Create)
	admin.PUT("/tags/:id", tags.Update)
	admin.DELETE("/tags/:id", tags.Delete)
	admin.POST("/catalog", catalog.Create)
	admin.POST("/catalog/:id/update-groups", catalog.UpdateGroups)
	admin.POST("/images/upload", images.Upload)
	admin.POST("/images/:id/delete", images.Delete)
	admin.POST("/translate", translate.Translate)

	router.GET("/", site.Home)
	router.GET("/about", site.About)
	router.GET("/products/:slug", site.Product)
	router.GET("/catalog/:slug", site.Catalog)
	router.GET("/p/:slug", site.CustomPage)
	router.NoRoute(site.NoRoute)

	return &testApp{db: testDB, router: router, cache: pageCache, store: store}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) get(path string) *httptest.ResponseRecorder {
	return a.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (a *testApp) postJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *testApp) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

type envelope struct {
	OK      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Warning string          `json:"warning"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) envelope {
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func newRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
