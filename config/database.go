package config

import (
	"fmt"
	"log"
	"time"
	"vidtree/database"
)

// DatabaseManager handles database initialization and management
type DatabaseManager struct {
	manager *database.Manager
	config  *Config
}

// NewDatabaseManager creates a new database manager
func NewDatabaseManager(cfg *Config) *DatabaseManager {
	return &DatabaseManager{
		manager: database.GetManager(),
		config:  cfg,
	}
}

// Initialize initializes the database connection
func (dm *DatabaseManager) Initialize() error {
	log.Println("Initializing database connection...")

	dbConfig := &database.Config{
		MongoURI:        dm.config.MongoURI,
		DatabaseName:    dm.config.DBName,
		MaxPoolSize:     100,
		MinPoolSize:     10,
		MaxConnIdleTime: 30 * time.Second,
		ConnectTimeout:  10 * time.Second,
		ServerTimeout:   10 * time.Second,
		SocketTimeout:   10 * time.Second,
	}

	if err := dm.manager.Initialize(dbConfig); err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	return nil
}

// SetupDatabase performs initial database setup
func (dm *DatabaseManager) SetupDatabase() error {
	log.Println("Setting up database...")

	if err := database.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %v", err)
	}

	log.Println("Database setup completed successfully")
	return nil
}

// HealthCheck performs a database health check
func (dm *DatabaseManager) HealthCheck() error {
	return dm.manager.HealthCheck()
}

// Close closes the database connection
func (dm *DatabaseManager) Close() error {
	return dm.manager.Close()
}
