package service

import (
	"errors"
	"testing"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type productFixture struct {
	db       *gorm.DB
	products ProductService
	tags     TagService
}

func setupProductServiceTest(t *testing.T) productFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	tagRepo := repository.NewTagRepository(testDB)
	return productFixture{
		db:       testDB,
		products: NewProductService(testDB, repository.NewProductRepository(testDB), tagRepo),
		tags:     NewTagService(testDB, tagRepo),
	}
}

func (f productFixture) tag(t *testing.T, name string) *model.Tag {
	tag, err := f.tags.Create(TagInput{Name: name})
	require.NoError(t, err)
	return tag
}

func (f productFixture) product(t *testing.T, input ProductInput) *model.Product {
	result, err := f.products.Create(input)
	require.NoError(t, err)
	require.Empty(t, result.Warning)
	return result.Product
}

func TestProductService_Create(t *testing.T) {
	f := setupProductServiceTest(t)
	red := f.tag(t, "Red")

	minQty := 500
	result, err := f.products.Create(ProductInput{
		Name:     "Magnetic Gift Box",
		Category: "gift_box",
		MinQty:   &minQty,
		Currency: "usd",
		Images:   []string{" https://cdn.example.com/1.jpg ", "", "https://cdn.example.com/2.jpg"},
		TagIDs:   []uint{red.ID, red.ID},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Warning)

	product := result.Product
	assert.Equal(t, "magnetic-gift-box", product.Slug)
	assert.Equal(t, model.CategoryGiftBox, product.Category)
	assert.Equal(t, model.StatusActive, product.Status)
	assert.Equal(t, "USD", product.Currency)
	assert.Equal(t, "https://cdn.example.com/1.jpg", product.CoverImage)
	assert.Len(t, product.Images, 2)
	assert.Equal(t, []uint{red.ID}, product.TagIDs())
	require.NotNil(t, product.MinQty)
	assert.Equal(t, 500, *product.MinQty)
}

func TestProductService_CreateErrors(t *testing.T) {
	f := setupProductServiceTest(t)
	f.product(t, ProductInput{Name: "Box", Slug: "box", Category: "GIFT_BOX"})

	tests := []struct {
		name    string
		input   ProductInput
		wantErr error
	}{
		{"duplicate slug", ProductInput{Name: "Box 2", Slug: "box", Category: "GIFT_BOX"}, ErrProductSlugExists},
		{"bad category", ProductInput{Name: "Box 3", Category: "CANDLE"}, ErrInvalidCategory},
		{"bad status", ProductInput{Name: "Box 4", Category: "GIFT", Status: "SOLD"}, ErrInvalidStatus},
		{"unknown tag", ProductInput{Name: "Box 5", Category: "GIFT", TagIDs: []uint{404}}, ErrTagNotFound},
		{"unknown component", ProductInput{Name: "Set", Category: "GIFT_SET", GiftSetItems: []GiftSetItemInput{{ProductID: 404, Quantity: 1}}}, ErrInvalidGiftSetItem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.products.Create(tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := f.products.Create(ProductInput{Category: "GIFT"})
	assert.Error(t, err)
}

func TestProductService_GiftSet(t *testing.T) {
	f := setupProductServiceTest(t)
	cup := f.product(t, ProductInput{Name: "Cup", Category: "GIFT"})
	tea := f.product(t, ProductInput{Name: "Tea", Category: "GIFT"})

	set := f.product(t, ProductInput{
		Name:     "Tea Set",
		Category: "GIFT_SET",
		GiftSetItems: []GiftSetItemInput{
			{ProductID: cup.ID, Quantity: 2},
			{ProductID: tea.ID, Quantity: 0},
			{ProductID: cup.ID, Quantity: 1},
		},
	})
	require.NotNil(t, set.GiftSet)
	require.Len(t, set.GiftSet.Items, 2)
	quantities := map[uint]int{}
	for _, item := range set.GiftSet.Items {
		quantities[item.ProductID] = item.Quantity
	}
	assert.Equal(t, 3, quantities[cup.ID])
	assert.Equal(t, 1, quantities[tea.ID])

	// a set cannot contain itself
	_, err := f.products.Update(set.ID, ProductInput{
		Name:         "Tea Set",
		Category:     "GIFT_SET",
		GiftSetItems: []GiftSetItemInput{{ProductID: set.ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrInvalidGiftSetItem)

	// changing the category drops the set
	result, err := f.products.Update(set.ID, ProductInput{Name: "Tea Box", Category: "GIFT_BOX"})
	require.NoError(t, err)
	assert.Nil(t, result.Product.GiftSet)

	var items int64
	require.NoError(t, f.db.Model(&model.GiftSetItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestProductService_Update(t *testing.T) {
	f := setupProductServiceTest(t)
	red := f.tag(t, "Red")
	gold := f.tag(t, "Gold")

	product := f.product(t, ProductInput{Name: "Box", Category: "GIFT_BOX", TagIDs: []uint{red.ID}})

	result, err := f.products.Update(product.ID, ProductInput{
		Name:     "Gold Box",
		Slug:     "gold-box",
		Category: "GIFT_BOX",
		Status:   "draft",
		TagIDs:   []uint{gold.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "gold-box", result.Product.Slug)
	assert.Equal(t, model.StatusDraft, result.Product.Status)
	assert.Equal(t, []uint{gold.ID}, result.Product.TagIDs())

	// drafts are hidden from the public slug lookup
	_, err = f.products.GetBySlug("gold-box")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.products.Update(9999, ProductInput{Name: "x", Category: "GIFT"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteCleansUp(t *testing.T) {
	f := setupProductServiceTest(t)
	red := f.tag(t, "Red")

	cup := f.product(t, ProductInput{Name: "Cup", Category: "GIFT", TagIDs: []uint{red.ID}})
	set := f.product(t, ProductInput{
		Name:         "Cup Set",
		Category:     "GIFT_SET",
		TagIDs:       []uint{red.ID},
		GiftSetItems: []GiftSetItemInput{{ProductID: cup.ID, Quantity: 2}},
	})
	other := f.product(t, ProductInput{
		Name:         "Double Set",
		Category:     "GIFT_SET",
		GiftSetItems: []GiftSetItemInput{{ProductID: set.ID, Quantity: 1}, {ProductID: cup.ID, Quantity: 1}},
	})

	require.NoError(t, f.products.Delete(set.ID))

	var count int64
	require.NoError(t, f.db.Model(&model.ProductTag{}).Where("product_id = ?", set.ID).Count(&count).Error)
	assert.Zero(t, count, "product tags")
	require.NoError(t, f.db.Model(&model.GiftSet{}).Where("product_id = ?", set.ID).Count(&count).Error)
	assert.Zero(t, count, "gift set")
	require.NoError(t, f.db.Model(&model.GiftSetItem{}).Where("product_id = ?", set.ID).Count(&count).Error)
	assert.Zero(t, count, "gift set items as component")
	require.NoError(t, f.db.Model(&model.Product{}).Where("id = ?", set.ID).Count(&count).Error)
	assert.Zero(t, count, "product")

	// unrelated rows survive
	remaining, err := f.products.GetByID(other.ID)
	require.NoError(t, err)
	require.NotNil(t, remaining.GiftSet)
	require.Len(t, remaining.GiftSet.Items, 1)
	assert.Equal(t, cup.ID, remaining.GiftSet.Items[0].ProductID)

	assert.ErrorIs(t, f.products.Delete(set.ID), ErrProductNotFound)
}

func TestProductService_List(t *testing.T) {
	f := setupProductServiceTest(t)
	f.product(t, ProductInput{Name: "Ribbon", Category: "GIFT"})
	f.product(t, ProductInput{Name: "Draft Ribbon", Category: "GIFT", Status: "DRAFT"})
	f.product(t, ProductInput{Name: "Box", Category: "GIFT_BOX"})

	gift := model.CategoryGift
	active, err := f.products.ListActive(&gift)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "ribbon", active[0].Slug)

	all, err := f.products.List(ProductListOptions{Search: "Ribbon"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// brokenImageRepo fails only the post-commit image link.
type brokenImageRepo struct {
	repository.ProductRepository
}

func (brokenImageRepo) UpdateImages(uint, string, []string) error {
	return errors.New("connection reset")
}

func TestProductService_CreateWarnsWhenImagesFail(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	repo := brokenImageRepo{repository.NewProductRepository(testDB)}
	products := NewProductService(testDB, repo, repository.NewTagRepository(testDB))

	result, err := products.Create(ProductInput{
		Name:     "Velvet Box",
		Category: "GIFT_BOX",
		Images:   []string{"https://cdn.example.com/v.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, ErrProductImageLinkFail.Error(), result.Warning)
	require.NotNil(t, result.Product)
	assert.Empty(t, result.Product.CoverImage)

	var stored model.Product
	require.NoError(t, testDB.Where("slug = ?", "velvet-box").First(&stored).Error)
	assert.Equal(t, result.Product.ID, stored.ID)
}
