package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RunMigrations executes all database migrations
func RunMigrations() error {
	log.Println("Running database migrations...")

	if err := createUserIndexes(); err != nil {
		return err
	}

	if err := createNodeIndexes(); err != nil {
		return err
	}

	if err := createTreeIndexes(); err != nil {
		return err
	}

	if err := createHistoryIndexes(); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createUserIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := GetCollection(UsersCollection)

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createNodeIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := GetCollection(NodesCollection)

	indexes := []mongo.IndexModel{
		{
			// Children lookup during level-by-level traversal, in saved
			// sibling order
			Keys: bson.D{
				{Key: "parent_id", Value: 1},
				{Key: "order", Value: 1},
			},
		},
		{
			Keys: bson.D{{Key: "creator", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createTreeIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := GetCollection(TreesCollection)

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "creator", Value: 1},
				{Key: "is_deleted", Value: 1},
			},
		},
		{
			// Public listing sorted by recency
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "is_deleted", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "root", Value: 1}},
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func createHistoryIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := GetCollection(HistoriesCollection)

	indexes := []mongo.IndexModel{
		{
			// One history entry per user per tree
			Keys: bson.D{
				{Key: "user", Value: 1},
				{Key: "tree", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
