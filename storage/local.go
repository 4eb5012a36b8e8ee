package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalClient implements local file system storage, used in development.
// Presigned URLs degrade to plain paths under the configured base URL.
type LocalClient struct {
	basePath string
	baseURL  string
}

// NewLocalClient creates a new local storage client
func NewLocalClient(cfg *Config) (*LocalClient, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "./uploads"
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %v", err)
	}

	return &LocalClient{
		basePath: basePath,
		baseURL:  cfg.BaseURL,
	}, nil
}

// Upload saves data to the local file system
func (lc *LocalClient) Upload(key string, data []byte) error {
	fullPath := filepath.Join(lc.basePath, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	return os.WriteFile(fullPath, data, 0644)
}

// UploadStream saves data from a stream to the local file system
func (lc *LocalClient) UploadStream(key string, reader io.Reader, size int64) error {
	fullPath := filepath.Join(lc.basePath, key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %v", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %v", err)
	}
	defer file.Close()

	_, err = io.Copy(file, reader)
	return err
}

// Delete removes a file from the local file system
func (lc *LocalClient) Delete(key string) error {
	err := os.Remove(filepath.Join(lc.basePath, key))
	if err != nil && !os.IsNotExist(err) {
		return NewStorageError("local", "DELETE_FAILED", err.Error(), key)
	}
	return nil
}

// DeleteMultiple removes multiple files
func (lc *LocalClient) DeleteMultiple(keys []string) error {
	for _, key := range keys {
		if err := lc.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// Exists checks whether a file exists
func (lc *LocalClient) Exists(key string) (bool, error) {
	_, err := os.Stat(filepath.Join(lc.basePath, key))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetURL returns the public URL for a file
func (lc *LocalClient) GetURL(key string) (string, error) {
	return fmt.Sprintf("%s/%s", lc.baseURL, key), nil
}

// GetPresignedURL returns a plain URL; local storage has no signing
func (lc *LocalClient) GetPresignedURL(key string, expiry time.Duration) (string, error) {
	return lc.GetURL(key)
}

// GetPresignedUploadURL returns a plain URL; local storage has no signing
func (lc *LocalClient) GetPresignedUploadURL(key string, expiry time.Duration) (string, error) {
	return lc.GetURL(key)
}

// HealthCheck verifies the base directory is writable
func (lc *LocalClient) HealthCheck() error {
	testFile := filepath.Join(lc.basePath, ".healthcheck")
	if err := os.WriteFile(testFile, []byte("ok"), 0644); err != nil {
		return NewStorageError("local", "HEALTH_CHECK_FAILED", err.Error(), "")
	}
	os.Remove(testFile)
	return nil
}
