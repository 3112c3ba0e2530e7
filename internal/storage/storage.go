package storage

import (
	"context"
	"io"
	"time"
)

const (
	// Типы хранилищ
	StorageTypeLocal = "local"
	StorageTypeS3    = "s3"

	// Настройки retry
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// Storage defines the interface for file storage operations
type Storage interface {
	// Save saves a file to storage
	Save(ctx context.Context, key string, reader io.Reader) error

	// Delete removes a file from storage
	Delete(ctx context.Context, key string) error

	// GetURL returns the stored reference for the key
	GetURL(ctx context.Context, key string) (string, error)

	// ValidateKey checks that the key is acceptable for the backend
	ValidateKey(key string) error
}
