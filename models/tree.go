package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TreeStatusPublic  = "public"
	TreeStatusPrivate = "private"
)

// VideoTree is the aggregate document for one playable video. Root holds the
// id of the entry node; the nodes themselves live in their own collection.
type VideoTree struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Creator     primitive.ObjectID   `bson:"creator" json:"creator"`
	Root        string               `bson:"root" json:"-"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Tags        []string             `bson:"tags" json:"tags"`
	Thumbnail   Thumbnail            `bson:"thumbnail" json:"thumbnail"`
	Size        int64                `bson:"size" json:"size"`
	MaxDuration float64              `bson:"max_duration" json:"maxDuration"`
	MinDuration float64              `bson:"min_duration" json:"minDuration"`
	Status      string               `bson:"status" json:"status"`
	IsEditing   bool                 `bson:"is_editing" json:"isEditing"`
	Views       int                  `bson:"views" json:"views"`
	Favorites   []primitive.ObjectID `bson:"favorites" json:"-"`
	IsDeleted   bool                 `bson:"is_deleted" json:"-"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
	DeletedAt   *time.Time           `bson:"deleted_at,omitempty" json:"-"`
}

type Thumbnail struct {
	Name string `bson:"name" json:"name"`
	URL  string `bson:"url" json:"url"`
}

// TreeDetail is the read-path shape: the aggregate joined with its
// materialized node tree and, when a viewer is known, enrichment data.
type TreeDetail struct {
	VideoTree
	Root        *TreeNode    `json:"root"`
	Favorites   int          `json:"favorites"`
	CreatorInfo *CreatorInfo `json:"creatorInfo,omitempty"`
	IsFavorite  bool         `json:"isFavorite"`
	History     *History     `json:"history,omitempty"`
}

type CreatorInfo struct {
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// TreeSaveRequest is the full-tree payload submitted on every save. The
// creator embedded in node payloads is never trusted; the authenticated
// caller always wins.
type TreeSaveRequest struct {
	Root        *TreeNode `json:"root" validate:"required"`
	Title       string    `json:"title" validate:"max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Tags        []string  `json:"tags" validate:"max=20"`
	Thumbnail   Thumbnail `json:"thumbnail"`
	Size        int64     `json:"size" validate:"min=0"`
	MaxDuration float64   `json:"maxDuration" validate:"min=0"`
	MinDuration float64   `json:"minDuration" validate:"min=0"`
	Status      string    `json:"status" validate:"required,tree_status"`
	IsEditing   bool      `json:"isEditing"`
}
