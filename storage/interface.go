package storage

import (
	"fmt"
	"io"
	"time"
)

// StorageInterface is the contract the upload and cascade-delete paths rely
// on. Node media lives behind it; the rest of the system only ever sees keys.
type StorageInterface interface {
	Upload(key string, data []byte) error
	UploadStream(key string, reader io.Reader, size int64) error
	Delete(key string) error
	DeleteMultiple(keys []string) error
	Exists(key string) (bool, error)

	GetURL(key string) (string, error)
	GetPresignedURL(key string, expiry time.Duration) (string, error)
	GetPresignedUploadURL(key string, expiry time.Duration) (string, error)

	HealthCheck() error
}

// Config describes one storage backend.
type Config struct {
	Provider  string // "s3" or "local"
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	BasePath  string // local provider only
	BaseURL   string // public URL prefix for GetURL
}

// StorageError carries the provider and operation that failed
type StorageError struct {
	Provider string
	Code     string
	Message  string
	Key      string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error [%s/%s] key=%s: %s", e.Provider, e.Code, e.Key, e.Message)
}

// NewStorageError creates a new storage error
func NewStorageError(provider, code, message, key string) *StorageError {
	return &StorageError{
		Provider: provider,
		Code:     code,
		Message:  message,
		Key:      key,
	}
}
