package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidKey = errors.New("invalid storage key")

// Storage - хранилище загруженных файлов (фото объявлений, аватары)
type Storage interface {
	// Save stores an object under key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// URL returns the public URL of the object
	URL(key string) string
}

// Config holds storage configuration
type Config struct {
	Type            string // local, s3, cloudflare_r2, gcs
	BasePath        string // local
	BaseURL         string // public URL base
	Bucket          string
	Region          string
	AccessKey       string
	SecretKey       string
	Endpoint        string // R2 or custom S3
	UseSSL          bool
	PublicRead      bool
	CredentialsFile string // gcs service account json
}

// NewStorage creates a storage backend based on configuration
func NewStorage(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	case "gcs":
		return NewGCSStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ObjectKey builds "<folder>/<yyyy>/<mm>/<uuid><ext>"
func ObjectKey(folder, ext string, now time.Time) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return path.Join(folder, now.Format("2006"), now.Format("01"), uuid.NewString()+strings.ToLower(ext))
}

// cleanKey rejects absolute keys and keys escaping the root
func cleanKey(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
