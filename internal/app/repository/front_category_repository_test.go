package repository

import (
	"testing"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontCategoryRepository_Groups(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewFrontCategoryRepository(testDB)
	tags := NewTagRepository(testDB)

	red := createTestTag(t, tags, "Red", "red")
	gold := createTestTag(t, tags, "Gold", "gold")

	category := &model.FrontCategory{Name: "Gifts", Slug: "gifts", IsActive: true}
	require.NoError(t, repo.Create(category))

	second := &model.FrontCategoryTagGroup{FrontCategoryID: category.ID, Label: "Gold", TagID: gold.ID, Order: 2}
	first := &model.FrontCategoryTagGroup{FrontCategoryID: category.ID, Label: "Red", TagID: red.ID, Order: 1}
	require.NoError(t, repo.CreateGroup(second))
	require.NoError(t, repo.CreateGroup(first))

	found, err := repo.FindBySlug("gifts", true)
	require.NoError(t, err)
	require.Len(t, found.TagGroups, 2)
	assert.Equal(t, "Red", found.TagGroups[0].Label)
	require.NotNil(t, found.TagGroups[0].Tag)
	assert.Equal(t, "red", found.TagGroups[0].Tag.Slug)

	first.Label = "Crimson"
	require.NoError(t, repo.UpdateGroup(first))

	// a group id from another category is not touched
	foreign := *second
	foreign.FrontCategoryID = category.ID + 1
	assert.Error(t, repo.UpdateGroup(&foreign))

	require.NoError(t, repo.DeleteGroup(category.ID, second.ID))
	found, err = repo.FindByID(category.ID)
	require.NoError(t, err)
	require.Len(t, found.TagGroups, 1)
	assert.Equal(t, "Crimson", found.TagGroups[0].Label)
}

func TestFrontCategoryRepository_ActiveOnly(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	repo := NewFrontCategoryRepository(testDB)
	require.NoError(t, repo.Create(&model.FrontCategory{Name: "On", Slug: "on", IsActive: true, Order: 2}))
	require.NoError(t, repo.Create(&model.FrontCategory{Name: "Off", Slug: "off", IsActive: false, Order: 1}))

	active, err := repo.FindAll(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "on", active[0].Slug)

	all, err := repo.FindAll(false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "off", all[0].Slug)

	_, err = repo.FindBySlug("off", true)
	assert.Error(t, err)

	ordered, err := repo.FindBySlugs([]string{"on", "off", "missing"})
	require.NoError(t, err)
	require.Len(t, ordered, 1)
}
