package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"erp-service/internal/config"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

var (
	ErrNotFound    = errors.New("object not found")
	ErrExists      = errors.New("object already exists")
	ErrInvalidKey  = errors.New("invalid object key")
	ErrUnsupported = errors.New("operation not supported by driver")
)

// Store keeps uploaded attachment bodies. Keys are slash separated and relative.
type Store interface {
	Driver() string
	Put(ctx context.Context, key string, r io.Reader, contentType string) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// PresignURL returns a time limited download URL, or ErrUnsupported for drivers that serve bodies directly
	PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// New opens the store selected by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", DriverLocal:
		return NewLocal(cfg.LocalDir)
	case DriverS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
