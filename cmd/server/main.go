package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hengyuan-pack/giftbox-site/config"
	"github.com/hengyuan-pack/giftbox-site/internal/app/controller"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	"github.com/hengyuan-pack/giftbox-site/internal/cache"
	"github.com/hengyuan-pack/giftbox-site/internal/db"
	"github.com/hengyuan-pack/giftbox-site/internal/metrics"
	"github.com/hengyuan-pack/giftbox-site/internal/render"
	"github.com/hengyuan-pack/giftbox-site/internal/router"
	"github.com/hengyuan-pack/giftbox-site/internal/scheduler"
	"github.com/hengyuan-pack/giftbox-site/internal/storage"
	ws "github.com/hengyuan-pack/giftbox-site/internal/websocket"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	redispkg "github.com/hengyuan-pack/giftbox-site/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel, logFormat := "info", "json"
	if cfg.Server.IsDevelopment() {
		logLevel, logFormat = "debug", "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: true,
	})

	logger.Info("Starting site server", map[string]interface{}{
		"site":        cfg.Server.SiteName,
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Refusing to start with an insecure admin configuration", err)
	}

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(&cfg.Admin); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Render cache: Redis when enabled, in-process otherwise
	var pageCache cache.PageCache = cache.NewMemoryCache(cfg.Cache.TTL)
	if cfg.Redis.Enabled {
		if err := redispkg.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, using in-memory render cache", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			pageCache = cache.NewRedisCache(redispkg.GetClient(), cfg.Cache.TTL)
			defer redispkg.Close()
		}
	}

	// Object store
	store, memStore := newObjectStore(cfg)

	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	revalidator := cache.NewRevalidator(pageCache, hub)

	renderer, err := render.New()
	if err != nil {
		logger.Fatal("Failed to parse templates", err)
	}

	// Initialize repositories
	database := db.GetDB()
	pageRepo := repository.NewSitePageRepository(database)
	sectionRepo := repository.NewHomeSectionRepository(database)
	productRepo := repository.NewProductRepository(database)
	tagRepo := repository.NewTagRepository(database)
	categoryRepo := repository.NewFrontCategoryRepository(database)
	imageRepo := repository.NewImageRepository(database)
	adminRepo := repository.NewAdminRepository(database)

	// Initialize services
	pageService := service.NewPageService(database, pageRepo)
	sectionService := service.NewSectionService(database, sectionRepo)
	productService := service.NewProductService(database, productRepo, tagRepo)
	tagService := service.NewTagService(database, tagRepo)
	catalogService := service.NewCatalogService(database, categoryRepo, productRepo)
	imageService := service.NewImageService(imageRepo, store)
	authService := service.NewAuthService(adminRepo, cfg.Admin.SessionSecret, cfg.Admin.SessionExpiry)
	translator := service.NewTranslator(cfg.Translate)

	// Initialize controllers
	controllers := router.Controllers{
		Auth:      controller.NewAuthController(authService, !cfg.Server.IsDevelopment()),
		Pages:     controller.NewPageController(pageService, revalidator),
		Sections:  controller.NewSectionController(sectionService, revalidator),
		Products:  controller.NewProductController(productService, revalidator),
		Tags:      controller.NewTagController(tagService, revalidator),
		Catalog:   controller.NewCatalogController(catalogService, revalidator),
		Images:    controller.NewImageController(imageService, revalidator),
		Translate: controller.NewTranslateController(translator),
		Events:    controller.NewEventsController(hub),
		Public:    controller.NewPublicController(pageService),
		Site: controller.NewSiteController(
			pageService, sectionService, productService, catalogService,
			renderer, pageCache, cfg.Server.SiteName,
		),
		Admin: controller.NewAdminController(
			pageService, sectionService, productService, tagService, catalogService, imageService,
			cfg.Server.SiteName,
		),
	}

	engine := router.NewRouter(controllers, renderer, authService, cfg).Setup()
	if memStore != nil {
		engine.GET("/uploads/*key", serveMemoryObject(memStore))
	}

	revalidateScheduler := scheduler.NewRevalidateScheduler(cfg.Cache.RevalidateCron, revalidator)
	if err := revalidateScheduler.Start(); err != nil {
		logger.Warn("Revalidate scheduler not started", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer revalidateScheduler.Stop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go reportPoolStats(ctx)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}
	logger.Info("Server stopped successfully")
}

// newObjectStore opens the configured bucket, or an in-memory store served
// under /uploads when no bucket is set.
func newObjectStore(cfg *config.Config) (storage.ObjectStore, *storage.MemoryStorage) {
	store, mem, err := storage.Open(context.Background(), cfg.S3)
	if err != nil {
		logger.Fatal("Failed to initialize object storage", err)
	}
	if mem != nil {
		logger.Warn("No S3 bucket configured, uploads are kept in memory", map[string]interface{}{
			"public_base_url": mem.BaseURL(),
		})
	}
	return store, mem
}

func serveMemoryObject(store *storage.MemoryStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "uploads/" + strings.TrimPrefix(c.Param("key"), "/")
		data, contentType, ok := store.Get(key)
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

func reportPoolStats(ctx context.Context) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := metrics.UpdateDatabaseConnections(db.GetDB()); err != nil {
				logger.Debug("Failed to read pool stats", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}
	}
}
