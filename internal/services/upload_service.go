package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"rental_backend/internal/imageprocessor"
	"rental_backend/internal/logger"
	"rental_backend/internal/storage"
	"rental_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
)

// UploadService - загрузка изображений: проверка, ресайз, превью и сохранение в storage
type UploadService interface {
	UploadImage(ctx context.Context, file *multipart.FileHeader, req ImageUploadRequest) (*UploadedImage, error)
	// DeleteObjects удаляет файлы, ошибки только логируются
	DeleteObjects(ctx context.Context, keys ...string)
}

type ImageUploadRequest struct {
	Folder        string
	Size          imageprocessor.ImageSize
	WithThumbnail bool
}

type UploadedImage struct {
	Key          string
	URL          string
	ThumbnailKey string
	ThumbnailURL string
	MimeType     string
	Size         int64
}

type UploadConfig struct {
	MaxFileSize  int64
	AllowedTypes []string
	ImageQuality int
}

type uploadService struct {
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    UploadConfig
	now       func() time.Time
}

func NewUploadService(store storage.Storage, config UploadConfig) UploadService {
	if config.MaxFileSize <= 0 {
		config.MaxFileSize = 10 * 1024 * 1024
	}
	if len(config.AllowedTypes) == 0 {
		config.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
	}
	return &uploadService{
		storage:   store,
		processor: imageprocessor.NewProcessor(config.ImageQuality),
		config:    config,
		now:       time.Now,
	}
}

func (s *uploadService) UploadImage(ctx context.Context, file *multipart.FileHeader, req ImageUploadRequest) (*UploadedImage, error) {
	if file.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to open uploaded file: %w", err))
	}
	defer src.Close()

	// Заголовку Content-Type от клиента не доверяем, тип определяем по содержимому
	data, err := io.ReadAll(io.LimitReader(src, s.config.MaxFileSize+1))
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to read uploaded file: %w", err))
	}
	if int64(len(data)) > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge
	}

	detected := mimetype.Detect(data)
	if !s.isAllowed(detected) {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"detected": detected.String()})
	}

	main, err := s.processor.Resize(bytes.NewReader(data), req.Size)
	if err != nil {
		return nil, apperrors.ErrInvalidFileType.WithError(err)
	}

	now := s.now()
	result := &UploadedImage{
		Key:      storage.ObjectKey(req.Folder, main.Ext, now),
		MimeType: main.ContentType,
		Size:     int64(len(main.Data)),
	}
	if err := s.storage.Save(ctx, result.Key, bytes.NewReader(main.Data), main.ContentType); err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("failed to save image: %w", err))
	}
	result.URL = s.storage.URL(result.Key)

	if !req.WithThumbnail {
		return result, nil
	}

	thumb, err := s.processor.Resize(bytes.NewReader(data), imageprocessor.SizeThumbnail)
	if err != nil {
		s.DeleteObjects(ctx, result.Key)
		return nil, apperrors.InternalError(err)
	}
	result.ThumbnailKey = storage.ObjectKey(req.Folder+"/thumbs", thumb.Ext, now)
	if err := s.storage.Save(ctx, result.ThumbnailKey, bytes.NewReader(thumb.Data), thumb.ContentType); err != nil {
		s.DeleteObjects(ctx, result.Key)
		return nil, apperrors.InternalError(fmt.Errorf("failed to save thumbnail: %w", err))
	}
	result.ThumbnailURL = s.storage.URL(result.ThumbnailKey)

	return result, nil
}

func (s *uploadService) DeleteObjects(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := s.storage.Delete(ctx, key); err != nil {
			logger.CtxWithError(ctx, "Failed to delete stored object", err, "key", key)
		}
	}
}

func (s *uploadService) isAllowed(detected *mimetype.MIME) bool {
	for _, allowed := range s.config.AllowedTypes {
		if detected.Is(allowed) {
			return true
		}
	}
	return false
}
