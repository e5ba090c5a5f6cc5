package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/config"
	"github.com/hengyuan-pack/giftbox-site/internal/app/controller"
	"github.com/hengyuan-pack/giftbox-site/internal/metrics"
	"github.com/hengyuan-pack/giftbox-site/internal/middleware"
	"github.com/hengyuan-pack/giftbox-site/internal/render"
)

// Controllers groups every handler the router mounts.
type Controllers struct {
	Auth      *controller.AuthController
	Pages     *controller.PageController
	Sections  *controller.SectionController
	Products  *controller.ProductController
	Tags      *controller.TagController
	Catalog   *controller.CatalogController
	Images    *controller.ImageController
	Translate *controller.TranslateController
	Events    *controller.EventsController
	Public    *controller.PublicController
	Site      *controller.SiteController
	Admin     *controller.AdminController
}

type Router struct {
	controllers Controllers
	renderer    *render.Renderer
	sessions    middleware.SessionValidator
	loginLimit  *middleware.RateLimiter
	config      *config.Config
}

func NewRouter(
	controllers Controllers,
	renderer *render.Renderer,
	sessions middleware.SessionValidator,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers: controllers,
		renderer:    renderer,
		sessions:    sessions,
		loginLimit:  middleware.NewRateLimiter(0.2, 5),
		config:      cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()
	router.HTMLRender = r.renderer

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))
	router.Use(middleware.AdminGate(middleware.AdminGateConfig{
		Development: r.config.Server.IsDevelopment(),
		BasicUser:   r.config.Admin.BasicUser,
		BasicPass:   r.config.Admin.BasicPass,
		Sessions:    r.sessions,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": r.config.Server.SiteName + " is running",
		})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	ctl := r.controllers

	// Public JSON
	api := router.Group("/api")
	{
		api.GET("/nav", ctl.Public.Nav)
		api.GET("/pages/contact", ctl.Public.Contact)
		api.GET("/pages/factory", ctl.Public.Factory)
		api.GET("/pages/:slug", ctl.Public.Page)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/login", r.loginLimit.Middleware(), ctl.Auth.Login)
		admin.POST("/logout", ctl.Auth.Logout)

		pages := admin.Group("/pages")
		{
			pages.GET("", ctl.Pages.List)
			pages.POST("", ctl.Pages.Create)
			pages.GET("/:id", ctl.Pages.Get)
			pages.PUT("/:id", ctl.Pages.Update)
			pages.DELETE("/:id", ctl.Pages.Delete)
			pages.POST("/:id/toggle", ctl.Pages.Toggle)
			pages.POST("/:id/move", ctl.Pages.Move)
		}

		sections := admin.Group("/sections")
		{
			sections.GET("", ctl.Sections.List)
			sections.POST("", ctl.Sections.Create)
			sections.POST("/reorder", ctl.Sections.Reorder)
			sections.PUT("/:id", ctl.Sections.Update)
			sections.DELETE("/:id", ctl.Sections.Delete)
			sections.POST("/:id/toggle", ctl.Sections.Toggle)
		}

		products := admin.Group("/products")
		{
			products.GET("", ctl.Products.List)
			products.POST("", ctl.Products.Create)
			products.GET("/:id", ctl.Products.Get)
			products.PUT("/:id", ctl.Products.Update)
			products.DELETE("/:id", ctl.Products.Delete)
		}

		tags := admin.Group("/tags")
		{
			tags.GET("", ctl.Tags.List)
			tags.POST("", ctl.Tags.Create)
			tags.PUT("/:id", ctl.Tags.Update)
			tags.DELETE("/:id", ctl.Tags.Delete)
		}

		catalog := admin.Group("/catalog")
		{
			catalog.GET("", ctl.Catalog.List)
			catalog.POST("", ctl.Catalog.Create)
			catalog.GET("/:id", ctl.Catalog.Get)
			catalog.PUT("/:id", ctl.Catalog.Update)
			catalog.DELETE("/:id", ctl.Catalog.Delete)
			catalog.POST("/:id/update-groups", ctl.Catalog.UpdateGroups)
		}

		images := admin.Group("/images")
		{
			images.GET("", ctl.Images.List)
			images.GET("/storage", ctl.Images.Storage)
			images.POST("/upload", ctl.Images.Upload)
			images.POST("/:id/delete", ctl.Images.Delete)
			images.POST("/:id/restore", ctl.Images.Restore)
		}

		admin.POST("/translate", ctl.Translate.Translate)
		admin.GET("/events", ctl.Events.Stream)
	}

	// Admin HTML
	router.GET("/admin", ctl.Admin.Dashboard)
	router.GET("/admin/login", ctl.Admin.Login)

	// Public HTML
	router.GET("/", ctl.Site.Home)
	router.GET("/about", ctl.Site.About)
	router.GET("/factory", ctl.Site.Factory)
	router.GET("/contact", ctl.Site.Contact)
	router.GET("/products", ctl.Site.Products)
	router.GET("/products/:slug", ctl.Site.Product)
	router.GET("/catalog/:slug", ctl.Site.Catalog)
	router.GET("/p/:slug", ctl.Site.CustomPage)

	router.NoRoute(ctl.Site.NoRoute)

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
