package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func defaultContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// GetCollection returns a MongoDB collection through the manager
func GetCollection(collectionName string) *mongo.Collection {
	manager := GetManager()
	if manager.GetDatabase() == nil {
		panic(fmt.Sprintf("database not initialized when trying to get collection: %s. Make sure Manager.Initialize() is called first.", collectionName))
	}
	return manager.GetCollection(collectionName)
}

// Ping checks the database connection
func Ping() error {
	return GetManager().HealthCheck()
}

// GetStats returns database statistics
func GetStats() (bson.M, error) {
	manager := GetManager()
	db := manager.GetDatabase()
	if db == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	ctx, cancel := defaultContext()
	defer cancel()

	var stats bson.M
	result := db.RunCommand(ctx, bson.D{{Key: "dbStats", Value: 1}})
	if err := result.Decode(&stats); err != nil {
		return nil, err
	}

	return stats, nil
}
