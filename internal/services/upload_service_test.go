package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental_backend/internal/imageprocessor"
	"rental_backend/internal/storage"
	"rental_backend/pkg/apperrors"
)

func multipartFile(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.Len(t, form.File["file"], 1)
	return form.File["file"][0]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestUploadService(t *testing.T, maxSize int64) (UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(storage.Config{BasePath: dir, BaseURL: "/uploads"})
	require.NoError(t, err)
	return NewUploadService(store, UploadConfig{MaxFileSize: maxSize, ImageQuality: 80}), dir
}

func TestUploadImage_WithThumbnail(t *testing.T) {
	svc, dir := newTestUploadService(t, 1<<20)
	file := multipartFile(t, "room.png", pngBytes(t, 400, 300))

	res, err := svc.UploadImage(context.Background(), file, ImageUploadRequest{
		Folder:        "posts/p1",
		Size:          imageprocessor.SizeGallery,
		WithThumbnail: true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.Key, "posts/p1/"))
	assert.True(t, strings.HasPrefix(res.ThumbnailKey, "posts/p1/thumbs/"))
	assert.Equal(t, "/uploads/"+res.Key, res.URL)
	assert.Equal(t, "image/png", res.MimeType)
	assert.Positive(t, res.Size)

	_, err = os.Stat(filepath.Join(dir, res.Key))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, res.ThumbnailKey))
	assert.NoError(t, err)

	svc.DeleteObjects(context.Background(), res.Key, res.ThumbnailKey, "")
	_, err = os.Stat(filepath.Join(dir, res.Key))
	assert.True(t, os.IsNotExist(err))
}

func TestUploadImage_RejectsNonImage(t *testing.T) {
	svc, _ := newTestUploadService(t, 1<<20)
	// расширение не помогает, тип определяется по содержимому
	file := multipartFile(t, "fake.png", []byte("%PDF-1.4 definitely not an image"))

	_, err := svc.UploadImage(context.Background(), file, ImageUploadRequest{Folder: "avatars", Size: imageprocessor.SizeAvatar})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidFileType))
}

func TestUploadImage_TooLarge(t *testing.T) {
	svc, _ := newTestUploadService(t, 100)
	file := multipartFile(t, "big.png", pngBytes(t, 64, 64))

	_, err := svc.UploadImage(context.Background(), file, ImageUploadRequest{Folder: "avatars", Size: imageprocessor.SizeAvatar})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrFileTooLarge))
}
