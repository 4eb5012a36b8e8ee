package storage

import (
	"fmt"
	"sync"
)

var (
	defaultClient StorageInterface
	mu            sync.RWMutex
)

// NewStorageClient creates a storage client for the configured provider
func NewStorageClient(cfg *Config) (StorageInterface, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case "s3":
		return NewS3Client(cfg)
	case "local":
		return NewLocalClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage provider: %s", cfg.Provider)
	}
}

// Initialize builds the default client used by the services
func Initialize(cfg *Config) error {
	client, err := NewStorageClient(cfg)
	if err != nil {
		return err
	}

	mu.Lock()
	defaultClient = client
	mu.Unlock()
	return nil
}

// GetClient returns the default storage client, or nil before Initialize
func GetClient() StorageInterface {
	mu.RLock()
	defer mu.RUnlock()
	return defaultClient
}

// ValidateConfig validates storage configuration
func ValidateConfig(cfg *Config) error {
	switch cfg.Provider {
	case "s3":
		if cfg.Bucket == "" {
			return fmt.Errorf("bucket name is required")
		}
		if cfg.Region == "" {
			return fmt.Errorf("AWS region is required")
		}
	case "local":
		// BasePath defaults inside NewLocalClient
	default:
		return fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}
	return nil
}
