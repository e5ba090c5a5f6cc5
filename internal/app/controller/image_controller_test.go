package controller

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/hengyuan-pack/giftbox-site/internal/app/model"
	"github.com/hengyuan-pack/giftbox-site/internal/app/service"
	apperrors "github.com/hengyuan-pack/giftbox-site/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadRequest(t *testing.T, filename, contentType string, content []byte, label string) *http.Request {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)

	if label != "" {
		require.NoError(t, writer.WriteField("label", label))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/images/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestImageController_Upload(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(uploadRequest(t, "box.png", "image/png", []byte("\x89PNG fake image"), "Rigid box front"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var asset model.ImageAsset
	decode(t, w, &asset)
	assert.True(t, strings.HasPrefix(asset.URL, testBaseURL+"/uploads/"), asset.URL)
	assert.True(t, strings.HasSuffix(asset.StorageKey, ".png"))
	assert.Equal(t, "Rigid box front", asset.Label)

	stored, contentType, ok := app.store.Get(asset.StorageKey)
	require.True(t, ok)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("\x89PNG fake image"), stored)

	var row model.ImageAsset
	require.NoError(t, app.db.First(&row, asset.ID).Error)
	assert.Equal(t, asset.URL, row.URL)
	assert.False(t, row.IsDeleted)
}

func TestImageController_UploadLabelDefaultsToFilename(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(uploadRequest(t, "tea-tin.jpg", "application/octet-stream", []byte("jpeg bytes"), ""))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var asset model.ImageAsset
	decode(t, w, &asset)
	assert.Equal(t, "tea-tin", asset.Label)
	assert.Equal(t, "image/jpeg", asset.ContentType)
}

func TestImageController_UploadRejected(t *testing.T) {
	app := setupTestApp(t)

	t.Run("not an image", func(t *testing.T) {
		w := app.do(uploadRequest(t, "notes.txt", "text/plain", []byte("hello"), ""))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.UploadInvalidFileType, decode(t, w, nil).Code)
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/images/upload", strings.NewReader("label=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := app.do(req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperrors.UploadMissingFile, decode(t, w, nil).Code)
	})

	t.Run("body over the request limit", func(t *testing.T) {
		oversize := bytes.Repeat([]byte{0xAB}, int(service.MaxImageSize)+2<<20)
		w := app.do(uploadRequest(t, "huge.png", "image/png", oversize, ""))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, apperrors.UploadFileTooLarge, decode(t, w, nil).Code)
	})

	var count int64
	app.db.Model(&model.ImageAsset{}).Count(&count)
	assert.Zero(t, count)
}

func TestImageController_SoftDeleteKeepsBlob(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(uploadRequest(t, "box.webp", "image/webp", []byte("webp"), ""))
	require.Equal(t, http.StatusCreated, w.Code)
	var asset model.ImageAsset
	decode(t, w, &asset)

	w = app.do(newRequest(http.MethodPost, fmt.Sprintf("/api/admin/images/%d/delete", asset.ID)))
	require.Equal(t, http.StatusOK, w.Code)

	var row model.ImageAsset
	require.NoError(t, app.db.First(&row, asset.ID).Error)
	assert.True(t, row.IsDeleted)
	_, _, ok := app.store.Get(asset.StorageKey)
	assert.True(t, ok)
}
