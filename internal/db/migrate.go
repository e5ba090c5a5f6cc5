package db

import (
	"encoding/json"

	"github.com/hengyuan-pack/giftbox-site/config"
	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/pkg/logger"
	"github.com/hengyuan-pack/giftbox-site/pkg/util"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Models lists every table owned by the content store.
func Models() []interface{} {
	return []interface{}{
		&model.SitePage{},
		&model.HomeSection{},
		&model.Tag{},
		&model.Product{},
		&model.ProductTag{},
		&model.GiftSet{},
		&model.GiftSetItem{},
		&model.FrontCategory{},
		&model.FrontCategoryTagGroup{},
		&model.ImageAsset{},
		&model.AdminCredential{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return AutoMigrate(DB)
}

func AutoMigrate(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the default pages, homepage sections and admin credential.
func Seed(admin *config.AdminConfig) error {
	return SeedDefaults(DB, admin)
}

func SeedDefaults(db *gorm.DB, admin *config.AdminConfig) error {
	logger.Info("Seeding initial data...")

	if err := seedPages(db); err != nil {
		logger.Error("Failed to seed pages", err)
		return err
	}
	if err := seedSections(db); err != nil {
		logger.Error("Failed to seed home sections", err)
		return err
	}
	if admin != nil {
		if err := seedAdmin(db, admin); err != nil {
			logger.Error("Failed to seed admin credential", err)
			return err
		}
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

// DefaultPages are created once and are never deletable.
func DefaultPages() []model.SitePage {
	return []model.SitePage{
		{Slug: "home", Type: model.PageTypeHomepage, Order: 0, ShowInNav: true,
			NavLabelZh: "首页", NavLabelEn: "Home", TitleZh: "礼盒包装定制", TitleEn: "Custom Gift Packaging"},
		{Slug: "products", Type: model.PageTypeProducts, Order: 15, ShowInNav: true,
			NavLabelZh: "产品中心", NavLabelEn: "Products", TitleZh: "产品中心", TitleEn: "Products"},
		{Slug: "factory", Type: model.PageTypeFactory, Order: 30, ShowInNav: true,
			NavLabelZh: "工厂实力", NavLabelEn: "Factory", TitleZh: "工厂实力", TitleEn: "Our Factory"},
		{Slug: "about", Type: model.PageTypeAbout, Order: 45, ShowInNav: true,
			NavLabelZh: "关于我们", NavLabelEn: "About", TitleZh: "关于我们", TitleEn: "About Us"},
		{Slug: "contact", Type: model.PageTypeContact, Order: 60, ShowInNav: true,
			NavLabelZh: "联系我们", NavLabelEn: "Contact", TitleZh: "联系我们", TitleEn: "Contact Us"},
	}
}

func seedPages(db *gorm.DB) error {
	inserted := 0
	for _, page := range DefaultPages() {
		var count int64
		if err := db.Model(&model.SitePage{}).Where("slug = ?", page.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		page.IsDefault = true
		page.IsEnabled = true
		if err := db.Create(&page).Error; err != nil {
			logger.Error("Failed to create default page", err, map[string]interface{}{
				"slug": page.Slug,
			})
			return err
		}
		inserted++
	}

	logger.Info("Default pages seeded", map[string]interface{}{
		"inserted": inserted,
	})
	return nil
}

func seedSections(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.HomeSection{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Home sections already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	defaults := []struct {
		typ     model.SectionType
		payload interface{}
	}{
		{model.SectionHero, model.HeroPayload{
			TitleZh: "高端礼盒 源头工厂", TitleEn: "Premium gift boxes, direct from the factory",
			CTALabelZh: "获取报价", CTALabelEn: "Get a quote", CTAHref: "/contact",
		}},
		{model.SectionWhy, model.WhyPayload{TitleZh: "为什么选择我们", TitleEn: "Why choose us"}},
		{model.SectionProducts, model.ProductsPayload{TitleZh: "热门产品", TitleEn: "Featured products", Limit: 8}},
		{model.SectionFactory, model.FactoryPayload{TitleZh: "工厂实力", TitleEn: "Our factory"}},
		{model.SectionCTA, model.CTAPayload{
			TitleZh: "开始您的定制项目", TitleEn: "Start your custom project", Href: "/contact",
			ButtonLabelZh: "联系我们", ButtonLabelEn: "Contact us",
		}},
	}

	for i, d := range defaults {
		raw, err := json.Marshal(d.payload)
		if err != nil {
			return err
		}
		section := model.HomeSection{
			Type:    d.typ,
			Order:   (i + 1) * 10,
			Enabled: true,
			Payload: datatypes.JSON(raw),
		}
		if err := db.Create(&section).Error; err != nil {
			return err
		}
	}

	logger.Info("Home sections seeded successfully", map[string]interface{}{
		"total_sections": len(defaults),
	})
	return nil
}

func seedAdmin(db *gorm.DB, admin *config.AdminConfig) error {
	if admin.DefaultUsername == "" || admin.DefaultPassword == "" {
		logger.Debug("No default admin password configured, skipping credential seed")
		return nil
	}

	var count int64
	if err := db.Model(&model.AdminCredential{}).Where("username = ?", admin.DefaultUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := util.HashPassword(admin.DefaultPassword)
	if err != nil {
		return err
	}
	return db.Create(&model.AdminCredential{
		Username:     admin.DefaultUsername,
		PasswordHash: hash,
	}).Error
}
