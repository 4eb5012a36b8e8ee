package config

import (
	"fmt"
	"log"
	"vidtree/storage"
)

// StorageManager wires the configured media storage backend
type StorageManager struct {
	config *Config
	client storage.StorageInterface
}

// NewStorageManager creates a new storage manager
func NewStorageManager(cfg *Config) *StorageManager {
	return &StorageManager{
		config: cfg,
	}
}

// Initialize initializes the storage subsystem
func (sm *StorageManager) Initialize() error {
	storageConfig := &storage.Config{
		Provider:  sm.config.StorageProvider,
		Bucket:    sm.config.S3Bucket,
		Region:    sm.config.S3Region,
		Endpoint:  sm.config.S3Endpoint,
		AccessKey: sm.config.S3AccessKey,
		SecretKey: sm.config.S3SecretKey,
		BasePath:  sm.config.UploadPath,
		BaseURL:   sm.config.MediaBaseURL,
	}

	if err := storage.ValidateConfig(storageConfig); err != nil {
		return fmt.Errorf("invalid storage configuration: %v", err)
	}

	if err := storage.Initialize(storageConfig); err != nil {
		return fmt.Errorf("failed to initialize storage: %v", err)
	}

	sm.client = storage.GetClient()
	log.Printf("Storage subsystem initialized with provider: %s", sm.config.StorageProvider)
	return nil
}

// GetClient returns the active storage client
func (sm *StorageManager) GetClient() storage.StorageInterface {
	return sm.client
}

// HealthCheck verifies the storage backend is reachable
func (sm *StorageManager) HealthCheck() error {
	if sm.client == nil {
		return fmt.Errorf("storage not initialized")
	}
	return sm.client.HealthCheck()
}
