package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// History records how far a viewer got through a tree. One document per
// (user, tree) pair, replaced on every progress report.
type History struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	User          primitive.ObjectID `bson:"user" json:"-"`
	Tree          primitive.ObjectID `bson:"tree" json:"tree"`
	ActiveNodeID  string             `bson:"active_node_id" json:"activeNodeId"`
	Progress      float64            `bson:"progress" json:"progress"`
	TotalProgress float64            `bson:"total_progress" json:"totalProgress"`
	IsEnded       bool               `bson:"is_ended" json:"isEnded"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

type HistoryPutRequest struct {
	Tree          string  `json:"tree" validate:"required"`
	ActiveNodeID  string  `json:"activeNodeId" validate:"required,node_id"`
	Progress      float64 `json:"progress" validate:"min=0"`
	TotalProgress float64 `json:"totalProgress" validate:"min=0"`
	IsEnded       bool    `json:"isEnded"`
}
