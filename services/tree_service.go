package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"vidtree/database"
	"vidtree/models"
	"vidtree/storage"
	"vidtree/utils"
)

// TreeService owns the video-tree aggregate and orchestrates structural work
// through NodeService. Aggregates are soft-deleted; nodes are hard-deleted.
type TreeService struct {
	treeCollection    *mongo.Collection
	userCollection    *mongo.Collection
	historyCollection *mongo.Collection
	nodes             *NodeService
}

func NewTreeService() *TreeService {
	return &TreeService{
		treeCollection:    database.GetCollection(database.TreesCollection),
		userCollection:    database.GetCollection(database.UsersCollection),
		historyCollection: database.GetCollection(database.HistoriesCollection),
		nodes:             NewNodeService(),
	}
}

// Create makes a fresh tree: a standalone root node first, then the aggregate
// referencing it, with default metadata and zero engagement counters.
func (ts *TreeService) Create(creatorID primitive.ObjectID) (*models.TreeDetail, error) {
	root, err := ts.nodes.CreateRoot(creatorID)
	if err != nil {
		return nil, err
	}

	tree := &models.VideoTree{
		ID:        primitive.NewObjectID(),
		Creator:   creatorID,
		Root:      root.ID,
		Title:     "",
		Tags:      []string{},
		Status:    models.TreeStatusPublic,
		IsEditing: true,
		Views:     0,
		Favorites: []primitive.ObjectID{},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := ts.treeCollection.InsertOne(ctx, tree); err != nil {
		return nil, fmt.Errorf("failed to create tree: %v", err)
	}

	return &models.TreeDetail{
		VideoTree: *tree,
		Root: &models.TreeNode{
			VideoNode: *root,
			Children:  []*models.TreeNode{},
		},
	}, nil
}

// Update saves a full client-submitted tree: structural changes go through
// node reconciliation, then the aggregate metadata is replaced. Engagement
// data (views, favorites) is never touched by a client update.
func (ts *TreeService) Update(treeID primitive.ObjectID, req *models.TreeSaveRequest, callerID primitive.ObjectID) (*models.VideoTree, error) {
	tree, err := ts.getActiveTree(treeID)
	if err != nil {
		return nil, err
	}

	// The authenticated caller is the source of truth, not the payload.
	if tree.Creator != callerID {
		return nil, fmt.Errorf("tree %s: %w", treeID.Hex(), ErrForbidden)
	}

	if req.Root == nil || req.Root.ID != tree.Root {
		return nil, fmt.Errorf("%w: submitted root does not match tree root %s", ErrCorruptTree, tree.Root)
	}

	incoming, err := utils.FlattenTree(req.Root)
	if err != nil {
		return nil, err
	}

	if _, err := ts.nodes.Reconcile(tree.Root, incoming, tree.Creator); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = ts.treeCollection.UpdateOne(ctx,
		bson.M{"_id": treeID, "creator": callerID},
		bson.M{"$set": bson.M{
			"title":        req.Title,
			"description":  req.Description,
			"tags":         req.Tags,
			"thumbnail":    req.Thumbnail,
			"size":         req.Size,
			"max_duration": req.MaxDuration,
			"min_duration": req.MinDuration,
			"status":       req.Status,
			"is_editing":   deriveIsEditing(req),
			"updated_at":   time.Now(),
		}},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update tree: %v", err)
	}

	return ts.getActiveTree(treeID)
}

// deriveIsEditing keeps a tree in the editing state whenever it could not be
// published as-is: no title yet, a node without media info, or a node whose
// upload is still in flight.
func deriveIsEditing(req *models.TreeSaveRequest) bool {
	if req.Title == "" {
		return true
	}
	if utils.AnyNode(req.Root, nodeIncomplete) {
		return true
	}
	return req.IsEditing
}

func nodeIncomplete(node *models.TreeNode) bool {
	if node.Info == nil {
		return true
	}
	return node.Info.Progress > 0 && node.Info.Progress < 100
}

// Remove deletes a tree and its whole subtree. An already-absent tree is a
// successful no-op. Nodes are removed first; the aggregate is only
// soft-deleted once the node cascade succeeded, so a crash in between never
// leaves a live tree pointing at missing nodes, and a retry is safe.
func (ts *TreeService) Remove(treeID, callerID primitive.ObjectID) error {
	tree, err := ts.getActiveTree(treeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	if tree.Creator != callerID {
		return fmt.Errorf("tree %s: %w", treeID.Hex(), ErrForbidden)
	}

	// Collect media keys before the nodes disappear.
	nodes, err := ts.nodes.FindByRoot(tree.Root, tree.Creator)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	if _, err := ts.nodes.DeleteByRoot(tree.Root, tree.Creator); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	_, err = ts.treeCollection.UpdateOne(ctx,
		bson.M{"_id": treeID, "creator": callerID},
		bson.M{"$set": bson.M{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark tree as deleted: %w", ErrPartialWrite)
	}

	go removeNodeMedia(nodes)

	return nil
}

// RemoveByCreator cascades a full account deletion: every node owned by the
// creator is hard-deleted, every tree aggregate soft-deleted.
func (ts *TreeService) RemoveByCreator(creatorID primitive.ObjectID) error {
	nodes, err := ts.nodes.FindByCreator(creatorID)
	if err != nil {
		return err
	}

	if _, err := ts.nodes.DeleteByCreator(creatorID); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := time.Now()
	_, err = ts.treeCollection.UpdateMany(ctx,
		bson.M{"creator": creatorID, "is_deleted": false},
		bson.M{"$set": bson.M{
			"is_deleted": true,
			"deleted_at": now,
			"updated_at": now,
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark trees as deleted: %w", ErrPartialWrite)
	}

	go removeNodeMedia(nodes)

	return nil
}

// FindOne fetches the aggregate, the full node set of its subtree and
// materializes the nested view.
func (ts *TreeService) FindOne(treeID primitive.ObjectID) (*models.TreeDetail, error) {
	tree, err := ts.getActiveTree(treeID)
	if err != nil {
		return nil, err
	}

	nodes, err := ts.nodes.FindByRoot(tree.Root, tree.Creator)
	if err != nil {
		return nil, err
	}

	root, err := utils.BuildTree(nodes)
	if err != nil {
		return nil, err
	}

	return &models.TreeDetail{
		VideoTree: *tree,
		Root:      root,
		Favorites: len(tree.Favorites),
	}, nil
}

// FindOneForViewer decorates FindOne with creator display info and, when a
// viewer is known, the viewer's favorite flag and watch history. Trees that
// are private or still in editing are only served to their creator, matching
// what the public listing exposes; a shared link to one is a 403, not a
// side door.
func (ts *TreeService) FindOneForViewer(treeID primitive.ObjectID, viewerID *primitive.ObjectID) (*models.TreeDetail, error) {
	detail, err := ts.FindOne(treeID)
	if err != nil {
		return nil, err
	}

	if !viewerMayWatch(&detail.VideoTree, viewerID) {
		return nil, fmt.Errorf("tree %s: %w", treeID.Hex(), ErrForbidden)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var creator models.User
	if err := ts.userCollection.FindOne(ctx, bson.M{"_id": detail.Creator}).Decode(&creator); err == nil {
		detail.CreatorInfo = &models.CreatorInfo{
			Name:    creator.Name,
			Picture: creator.Picture,
		}
	}

	if viewerID == nil {
		return detail, nil
	}

	for _, id := range detail.VideoTree.Favorites {
		if id == *viewerID {
			detail.IsFavorite = true
			break
		}
	}

	var history models.History
	err = ts.historyCollection.FindOne(ctx, bson.M{
		"user": *viewerID,
		"tree": treeID,
	}).Decode(&history)
	if err == nil {
		detail.History = &history
	}

	return detail, nil
}

// viewerMayWatch reports whether the watch path may serve the tree. Public
// finished trees are open to everyone; anything else only to its creator.
func viewerMayWatch(tree *models.VideoTree, viewerID *primitive.ObjectID) bool {
	if tree.Status == models.TreeStatusPublic && !tree.IsEditing {
		return true
	}
	return viewerID != nil && *viewerID == tree.Creator
}

// IncrementViews bumps the view counter. Engagement data is server-owned;
// this is the only mutation path for it besides ToggleFavorite.
func (ts *TreeService) IncrementViews(treeID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := ts.treeCollection.UpdateOne(ctx,
		bson.M{"_id": treeID, "is_deleted": false},
		bson.M{"$inc": bson.M{"views": 1}},
	)
	return err
}

// ToggleFavorite adds or removes the user from the tree's favoriting set and
// returns the new state plus the resulting count.
func (ts *TreeService) ToggleFavorite(treeID, userID primitive.ObjectID) (bool, int, error) {
	tree, err := ts.getActiveTree(treeID)
	if err != nil {
		return false, 0, err
	}

	isFavorite := false
	for _, id := range tree.Favorites {
		if id == userID {
			isFavorite = true
			break
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	update := bson.M{"$addToSet": bson.M{"favorites": userID}}
	if isFavorite {
		update = bson.M{"$pull": bson.M{"favorites": userID}}
	}

	if _, err := ts.treeCollection.UpdateOne(ctx, bson.M{"_id": treeID}, update); err != nil {
		return false, 0, fmt.Errorf("failed to toggle favorite: %v", err)
	}

	count := len(tree.Favorites)
	if isFavorite {
		count--
	} else {
		count++
	}

	return !isFavorite, count, nil
}

// GetUserTrees returns the creator's own trees, newest first.
func (ts *TreeService) GetUserTrees(creatorID primitive.ObjectID, page, limit int) ([]models.VideoTree, int, error) {
	filter := bson.M{
		"creator":    creatorID,
		"is_deleted": false,
	}
	return ts.listTrees(filter, page, limit)
}

// GetPublicTrees returns listed public trees, optionally filtered by a title
// search term.
func (ts *TreeService) GetPublicTrees(search string, page, limit int) ([]models.VideoTree, int, error) {
	filter := bson.M{
		"status":     models.TreeStatusPublic,
		"is_editing": false,
		"is_deleted": false,
	}
	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"tags": bson.M{"$in": []string{search}}},
		}
	}
	return ts.listTrees(filter, page, limit)
}

func (ts *TreeService) listTrees(filter bson.M, page, limit int) ([]models.VideoTree, int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	skip := (page - 1) * limit

	cursor, err := ts.treeCollection.Find(ctx, filter,
		options.Find().
			SetSort(bson.M{"created_at": -1}).
			SetSkip(int64(skip)).
			SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var trees []models.VideoTree
	if err = cursor.All(ctx, &trees); err != nil {
		return nil, 0, err
	}

	total, err := ts.treeCollection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return trees, int(total), nil
}

func (ts *TreeService) getActiveTree(treeID primitive.ObjectID) (*models.VideoTree, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var tree models.VideoTree
	err := ts.treeCollection.FindOne(ctx, bson.M{
		"_id":        treeID,
		"is_deleted": false,
	}).Decode(&tree)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("tree %s: %w", treeID.Hex(), ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch tree: %v", err)
	}

	return &tree, nil
}

// removeNodeMedia deletes the stored media objects behind a batch of nodes.
// Best effort: node documents are already gone, so a failure here only
// leaves orphaned objects for the storage janitor.
func removeNodeMedia(nodes []models.VideoNode) {
	client := storage.GetClient()
	if client == nil {
		return
	}

	var keys []string
	for _, node := range nodes {
		if node.Info != nil && node.Info.URL != "" {
			keys = append(keys, node.Info.URL)
		}
	}
	if len(keys) == 0 {
		return
	}

	if err := client.DeleteMultiple(keys); err != nil {
		log.Printf("Failed to remove media objects: %v", err)
	}
}
