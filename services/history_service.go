package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vidtree/models"
	"vidtree/utils"
)

type HistoryService struct {
	*BaseService
}

func NewHistoryService() *HistoryService {
	return &HistoryService{
		BaseService: NewBaseService(),
	}
}

// Put records watch progress for a (user, tree) pair, replacing any earlier
// report.
func (hs *HistoryService) Put(userID primitive.ObjectID, req *models.HistoryPutRequest) (*models.History, error) {
	treeID, err := utils.StringToObjectID(req.Tree)
	if err != nil {
		return nil, fmt.Errorf("invalid tree id: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	history := &models.History{
		User:          userID,
		Tree:          treeID,
		ActiveNodeID:  req.ActiveNodeID,
		Progress:      req.Progress,
		TotalProgress: req.TotalProgress,
		IsEnded:       req.IsEnded,
		UpdatedAt:     time.Now(),
	}

	_, err = hs.collections.Histories().UpdateOne(ctx,
		bson.M{"user": userID, "tree": treeID},
		bson.M{"$set": bson.M{
			"active_node_id": history.ActiveNodeID,
			"progress":       history.Progress,
			"total_progress": history.TotalProgress,
			"is_ended":       history.IsEnded,
			"updated_at":     history.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save history: %v", err)
	}

	return history, nil
}

// GetForUser returns the viewer's watch history, most recent first.
func (hs *HistoryService) GetForUser(userID primitive.ObjectID, page, limit int) ([]models.History, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"user": userID}
	skip := (page - 1) * limit

	cursor, err := hs.collections.Histories().Find(ctx, filter,
		options.Find().
			SetSort(bson.M{"updated_at": -1}).
			SetSkip(int64(skip)).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var histories []models.History
	if err = cursor.All(ctx, &histories); err != nil {
		return nil, 0, err
	}

	total, err := hs.collections.Histories().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return histories, int(total), nil
}

// DeleteForUser clears the viewer's history for one tree.
func (hs *HistoryService) DeleteForUser(userID, treeID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := hs.collections.Histories().DeleteOne(ctx, bson.M{
		"user": userID,
		"tree": treeID,
	})
	return err
}
