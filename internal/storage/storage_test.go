package storage

import (
	"context"
	"strings"
	"testing"

	appconfig "github.com/hengyuan-pack/giftbox-site/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/uploads/a.png", PublicURL("https://cdn.example.com/", "/uploads/a.png"))
	assert.Equal(t, "https://cdn.example.com/uploads/a.png", PublicURL("https://cdn.example.com", "uploads/a.png"))
}

func TestMemoryStorage_PutAndList(t *testing.T) {
	store := NewMemoryStorage("https://cdn.example.com")
	ctx := context.Background()

	url, err := store.Put(ctx, "uploads/b.png", strings.NewReader("png"), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/b.png", url)

	_, err = store.Put(ctx, "uploads/a.jpg", strings.NewReader("jpg"), 3, "image/jpeg")
	require.NoError(t, err)
	_, err = store.Put(ctx, "other/c.txt", strings.NewReader("txt"), 3, "text/plain")
	require.NoError(t, err)

	objects, err := store.List(ctx, "uploads/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "uploads/a.jpg", objects[0].Key)
	assert.Equal(t, int64(3), objects[0].Size)

	data, contentType, ok := store.Get("uploads/b.png")
	require.True(t, ok)
	assert.Equal(t, "png", string(data))
	assert.Equal(t, "image/png", contentType)
}

func TestValidateContentType(t *testing.T) {
	allowed := []string{"image/png", "image/jpeg"}
	assert.NoError(t, ValidateContentType("image/png", allowed))
	assert.Error(t, ValidateContentType("application/pdf", allowed))
}

func TestValidateFileSize(t *testing.T) {
	assert.NoError(t, ValidateFileSize(10, 10))
	assert.Error(t, ValidateFileSize(11, 10))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("bucket without keys uses S3 with the default credential chain", func(t *testing.T) {
		store, mem, err := Open(ctx, appconfig.S3Config{
			Region:        "eu-west-1",
			Bucket:        "giftbox-uploads",
			PublicBaseURL: "https://cdn.example.com",
		})
		require.NoError(t, err)
		assert.Nil(t, mem)
		_, isS3 := store.(*S3Storage)
		assert.True(t, isS3)
		assert.Equal(t, "https://cdn.example.com", store.BaseURL())
	})

	t.Run("no bucket keeps uploads in memory under the public base URL", func(t *testing.T) {
		store, mem, err := Open(ctx, appconfig.S3Config{PublicBaseURL: "https://cdn.example.com/"})
		require.NoError(t, err)
		require.NotNil(t, mem)
		assert.Same(t, mem, store)

		url, err := store.Put(ctx, "uploads/a.png", strings.NewReader("png"), 3, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/uploads/a.png", url)
	})

	t.Run("no bucket and no base URL serves from the site root", func(t *testing.T) {
		store, _, err := Open(ctx, appconfig.S3Config{})
		require.NoError(t, err)
		url, err := store.Put(ctx, "uploads/a.png", strings.NewReader("png"), 3, "image/png")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/a.png", url)
	})
}
