package service

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/hengyuan-pack/giftbox-site/internal/app/repository"
	"github.com/hengyuan-pack/giftbox-site/internal/db"
	"github.com/hengyuan-pack/giftbox-site/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://cdn.example.com/giftbox"

func setupImageServiceTest(t *testing.T) (ImageService, *storage.MemoryStorage) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store := storage.NewMemoryStorage(testBaseURL)
	return NewImageService(repository.NewImageRepository(testDB), store), store
}

func TestUploadKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	key := UploadKey(now, "Photo.JPG", "image/jpeg")
	assert.Regexp(t, regexp.MustCompile(`^uploads/1700000000123-[0-9a-f]{12}\.jpg$`), key)

	other := UploadKey(now, "Photo.JPG", "image/jpeg")
	assert.NotEqual(t, key, other)

	noExt := UploadKey(now, "blob", "image/png")
	assert.True(t, strings.HasPrefix(noExt, "uploads/1700000000123-"))
	assert.True(t, strings.HasSuffix(noExt, ".png"))
}

func TestImageService_Upload(t *testing.T) {
	svc, store := setupImageServiceTest(t)
	body := []byte("\x89PNG fake")

	image, err := svc.Upload(context.Background(), UploadInput{
		Filename:    "box.png",
		ContentType: "image/png",
		Size:        int64(len(body)),
		Body:        bytes.NewReader(body),
		Label:       "Kraft box front",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(image.URL, testBaseURL+"/uploads/"))
	assert.Equal(t, "Kraft box front", image.Label)

	data, contentType, ok := store.Get(image.StorageKey)
	require.True(t, ok)
	assert.Equal(t, body, data)
	assert.Equal(t, "image/png", contentType)

	images, err := svc.List(false)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "Kraft box front", images[0].Label)

	objects, err := svc.ListStorage(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, image.URL, objects[0].URL)
}

func TestImageService_UploadRejects(t *testing.T) {
	svc, _ := setupImageServiceTest(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, UploadInput{Filename: "a.pdf", ContentType: "application/pdf", Size: 3, Body: strings.NewReader("pdf")})
	assert.ErrorIs(t, err, ErrInvalidImageType)

	_, err = svc.Upload(ctx, UploadInput{Filename: "a.png", ContentType: "image/png", Size: MaxImageSize + 1, Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = svc.Upload(ctx, UploadInput{Filename: "a.png", ContentType: "image/png", Size: 0, Body: strings.NewReader("")})
	assert.ErrorIs(t, err, ErrEmptyUpload)

	// content type sniffed from the extension when the client sends none
	image, err := svc.Upload(ctx, UploadInput{Filename: "hero.webp", Size: 4, Body: strings.NewReader("webp")})
	require.NoError(t, err)
	assert.Equal(t, "image/webp", image.ContentType)
	assert.Equal(t, "hero", image.Label)
}

func TestImageService_SoftDeleteAndRestore(t *testing.T) {
	svc, store := setupImageServiceTest(t)
	image, err := svc.Upload(context.Background(), UploadInput{
		Filename: "a.jpg", ContentType: "image/jpeg", Size: 3, Body: strings.NewReader("jpg"),
	})
	require.NoError(t, err)

	deleted, err := svc.SoftDelete(image.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	visible, err := svc.List(false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := svc.List(true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	// the blob is kept
	_, _, ok := store.Get(image.StorageKey)
	assert.True(t, ok)

	restored, err := svc.Restore(image.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)

	_, err = svc.SoftDelete(9999)
	assert.ErrorIs(t, err, ErrImageNotFound)
}
