package repository

import (
	"testing"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPageTest(t *testing.T) (*gorm.DB, SitePageRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	return testDB, NewSitePageRepository(testDB)
}

func TestSitePageRepository_FindAllOrdered(t *testing.T) {
	testDB, repo := setupPageTest(t)
	defer db.CleanupTestDB(testDB)

	pages := []model.SitePage{
		{Slug: "b", Type: model.PageTypeCustom, Order: 30, IsEnabled: true},
		{Slug: "a", Type: model.PageTypeCustom, Order: 15, IsEnabled: true},
		{Slug: "c", Type: model.PageTypeCustom, Order: 15, IsEnabled: true},
	}
	for i := range pages {
		require.NoError(t, repo.Create(&pages[i]))
	}

	found, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "a", found[0].Slug)
	assert.Equal(t, "c", found[1].Slug)
	assert.Equal(t, "b", found[2].Slug)
}

func TestSitePageRepository_FindNav(t *testing.T) {
	testDB, repo := setupPageTest(t)
	defer db.CleanupTestDB(testDB)

	pages := []model.SitePage{
		{Slug: "shown", Type: model.PageTypeCustom, IsEnabled: true, ShowInNav: true},
		{Slug: "hidden", Type: model.PageTypeCustom, IsEnabled: true, ShowInNav: false},
		{Slug: "off", Type: model.PageTypeCustom, IsEnabled: false, ShowInNav: true},
	}
	for i := range pages {
		require.NoError(t, repo.Create(&pages[i]))
	}

	nav, err := repo.FindNav()
	require.NoError(t, err)
	require.Len(t, nav, 1)
	assert.Equal(t, "shown", nav[0].Slug)
}

func TestSitePageRepository_FalseBoolsPersist(t *testing.T) {
	testDB, repo := setupPageTest(t)
	defer db.CleanupTestDB(testDB)

	page := &model.SitePage{Slug: "draft", Type: model.PageTypeCustom, IsEnabled: false, ShowInNav: false}
	require.NoError(t, repo.Create(page))

	found, err := repo.FindBySlug("draft")
	require.NoError(t, err)
	assert.False(t, found.IsEnabled)
	assert.False(t, found.ShowInNav)
}

func TestSitePageRepository_DeleteMissing(t *testing.T) {
	testDB, repo := setupPageTest(t)
	defer db.CleanupTestDB(testDB)

	assert.ErrorIs(t, repo.Delete(999), gorm.ErrRecordNotFound)
}
