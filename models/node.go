package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoNode is a single segment in a video tree. Nodes are created client-side,
// so the id is a caller-supplied string rather than an ObjectID.
type VideoNode struct {
	ID        string             `bson:"_id" json:"id" validate:"required,node_id"`
	ParentID  *string            `bson:"parent_id,omitempty" json:"parentId"`
	Creator   primitive.ObjectID `bson:"creator" json:"creator"`
	Level     int                `bson:"level" json:"level" validate:"min=0"`
	Order     int                `bson:"order" json:"-"` // sibling position, derived from the nesting on save
	Info      *NodeInfo          `bson:"info,omitempty" json:"info"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// NodeInfo describes the media attached to a node. A nil NodeInfo means the
// node has been placed in the tree but no file has been selected yet.
type NodeInfo struct {
	Name           string  `bson:"name" json:"name"`
	Label          string  `bson:"label" json:"label"`
	Size           int64   `bson:"size" json:"size"`
	Duration       float64 `bson:"duration" json:"duration"`
	SelectionStart float64 `bson:"selection_start" json:"selectionStart"`
	SelectionEnd   float64 `bson:"selection_end" json:"selectionEnd"`
	URL            string  `bson:"url" json:"url"`
	IsConverted    bool    `bson:"is_converted" json:"isConverted"`
	Progress       float64 `bson:"progress" json:"progress"`
	Error          *string `bson:"error,omitempty" json:"error"`
}

// TreeNode is the nested, client-facing shape of a node. It is never persisted;
// read paths build it from the flat node collection and write paths flatten it
// back before reconciliation.
type TreeNode struct {
	VideoNode `bson:",inline"`
	Children  []*TreeNode `json:"children"`
}

// Flatten returns the node stripped of its children, for persistence.
func (tn *TreeNode) Flatten() VideoNode {
	return tn.VideoNode
}
