package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vidtree/database"
	"vidtree/models"
)

// maxTreeDepth bounds the descendant fetch so a corrupted parent-pointer
// chain can never loop a request forever.
const maxTreeDepth = 100

// NodeService owns the flat node collection. It is the sole mutator of
// nodes; every query and mutation is filtered by creator id, which is the
// isolation boundary between users sharing the collection.
type NodeService struct {
	nodeCollection *mongo.Collection
}

func NewNodeService() *NodeService {
	return &NodeService{
		nodeCollection: database.GetCollection(database.NodesCollection),
	}
}

// CreateRoot inserts a fresh standalone root node for a new tree.
func (ns *NodeService) CreateRoot(creatorID primitive.ObjectID) (*models.VideoNode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	node := &models.VideoNode{
		ID:        uuid.NewString(),
		ParentID:  nil,
		Creator:   creatorID,
		Level:     0,
		Info:      nil,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if _, err := ns.nodeCollection.InsertOne(ctx, node); err != nil {
		return nil, fmt.Errorf("failed to create root node: %v", err)
	}

	return node, nil
}

// FindByRoot returns the root node plus every descendant, restricted to
// nodes owned by creatorID. Nodes of other creators are excluded even if
// structurally connected. The result is in breadth-first level order, so
// parents always precede children.
func (ns *NodeService) FindByRoot(rootID string, creatorID primitive.ObjectID) ([]models.VideoNode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var root models.VideoNode
	err := ns.nodeCollection.FindOne(ctx, bson.M{
		"_id":     rootID,
		"creator": creatorID,
	}).Decode(&root)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("root node %s: %w", rootID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch root node: %v", err)
	}

	nodes := []models.VideoNode{root}
	seen := map[string]bool{root.ID: true}
	frontier := []string{root.ID}

	// Walk the parent-pointer index level by level.
	for depth := 0; len(frontier) > 0; depth++ {
		if depth >= maxTreeDepth {
			return nil, fmt.Errorf("%w: subtree of %s deeper than %d levels", ErrCorruptTree, rootID, maxTreeDepth)
		}

		// Siblings come back in their saved order; created_at breaks ties
		// for nodes written before order was tracked.
		cursor, err := ns.nodeCollection.Find(ctx,
			bson.M{
				"parent_id": bson.M{"$in": frontier},
				"creator":   creatorID,
			},
			options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: 1}}),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch child nodes: %v", err)
		}

		var children []models.VideoNode
		if err = cursor.All(ctx, &children); err != nil {
			return nil, fmt.Errorf("failed to decode child nodes: %v", err)
		}

		frontier = frontier[:0]
		for _, child := range children {
			if seen[child.ID] {
				return nil, fmt.Errorf("%w: node %s reachable twice under root %s", ErrCorruptTree, child.ID, rootID)
			}
			seen[child.ID] = true
			nodes = append(nodes, child)
			frontier = append(frontier, child.ID)
		}
	}

	return nodes, nil
}

// FindByCreator returns every node owned by a creator across all trees.
// Used by the account-deletion cascade.
func (ns *NodeService) FindByCreator(creatorID primitive.ObjectID) ([]models.VideoNode, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := ns.nodeCollection.Find(ctx, bson.M{"creator": creatorID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nodes: %v", err)
	}
	defer cursor.Close(ctx)

	var nodes []models.VideoNode
	if err = cursor.All(ctx, &nodes); err != nil {
		return nil, fmt.Errorf("failed to decode nodes: %v", err)
	}

	return nodes, nil
}

// DeleteByRoot hard-deletes the root and every descendant owned by creatorID.
func (ns *NodeService) DeleteByRoot(rootID string, creatorID primitive.ObjectID) (int64, error) {
	nodes, err := ns.FindByRoot(rootID, creatorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Nodes already gone; the cascade is idempotent.
			return 0, nil
		}
		return 0, err
	}

	ids := make([]string, len(nodes))
	for i, node := range nodes {
		ids[i] = node.ID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := ns.nodeCollection.DeleteMany(ctx, bson.M{
		"_id":     bson.M{"$in": ids},
		"creator": creatorID,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete subtree of %s: %w", rootID, ErrPartialWrite)
	}

	return result.DeletedCount, nil
}

// DeleteByCreator hard-deletes every node owned by a creator.
func (ns *NodeService) DeleteByCreator(creatorID primitive.ObjectID) (int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := ns.nodeCollection.DeleteMany(ctx, bson.M{"creator": creatorID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete nodes of creator %s: %w", creatorID.Hex(), ErrPartialWrite)
	}

	return result.DeletedCount, nil
}

// Reconcile makes the persisted subtree under rootID match the incoming flat
// node set: inserts new ids, deletes vanished ids and updates the media info
// of matched ids, preserving finished conversion results (PlanReconcile).
// All three groups go to the store as a single bulk operation; a failure
// mid-batch surfaces as ErrPartialWrite so the caller can resubmit.
func (ns *NodeService) Reconcile(rootID string, incoming []models.VideoNode, creatorID primitive.ObjectID) (NodeChanges, error) {
	saved, err := ns.FindByRoot(rootID, creatorID)
	if err != nil {
		return NodeChanges{}, err
	}

	changes := PlanReconcile(saved, incoming, creatorID)
	if changes.IsEmpty() {
		return changes, nil
	}

	now := time.Now()
	writes := make([]mongo.WriteModel, 0, len(changes.Created)+len(changes.Updated)+1)

	for i := range changes.Created {
		node := changes.Created[i]
		node.CreatedAt = now
		node.UpdatedAt = now
		writes = append(writes, mongo.NewInsertOneModel().SetDocument(node))
	}

	// parent_id, level and creator are immutable after creation; the media
	// descriptor and the sibling position are replaced.
	for _, node := range changes.Updated {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": node.ID, "creator": creatorID}).
			SetUpdate(bson.M{"$set": bson.M{
				"info":       node.Info,
				"order":      node.Order,
				"updated_at": now,
			}}))
	}

	if len(changes.DeletedIDs) > 0 {
		writes = append(writes, mongo.NewDeleteManyModel().
			SetFilter(bson.M{
				"_id":     bson.M{"$in": changes.DeletedIDs},
				"creator": creatorID,
			}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := ns.nodeCollection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return changes, fmt.Errorf("node reconciliation for root %s failed: %v: %w", rootID, err, ErrPartialWrite)
	}

	if result.InsertedCount != int64(len(changes.Created)) || result.MatchedCount != int64(len(changes.Updated)) {
		return changes, fmt.Errorf("node reconciliation for root %s applied incompletely (%d/%d inserts, %d/%d updates): %w",
			rootID, result.InsertedCount, len(changes.Created), result.MatchedCount, len(changes.Updated), ErrPartialWrite)
	}

	return changes, nil
}
