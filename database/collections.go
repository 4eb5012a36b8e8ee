package database

import "go.mongodb.org/mongo-driver/mongo"

// Collection names as constants to prevent typos
const (
	UsersCollection     = "users"
	NodesCollection     = "video_nodes"
	TreesCollection     = "video_trees"
	HistoriesCollection = "histories"
)

// Collections provides typed access to all collections
type Collections struct {
	manager *Manager
}

// NewCollections creates a new collections instance
func NewCollections() *Collections {
	return &Collections{
		manager: GetManager(),
	}
}

func (c *Collections) Users() *mongo.Collection {
	return c.manager.GetCollection(UsersCollection)
}

func (c *Collections) Nodes() *mongo.Collection {
	return c.manager.GetCollection(NodesCollection)
}

func (c *Collections) Trees() *mongo.Collection {
	return c.manager.GetCollection(TreesCollection)
}

func (c *Collections) Histories() *mongo.Collection {
	return c.manager.GetCollection(HistoriesCollection)
}
