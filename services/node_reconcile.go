package services

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtree/models"
)

// ConvertedMediaExt marks a URL produced by the server-side converter. A node
// whose saved URL carries it holds a finished conversion result that a stale
// client payload must never clobber.
const ConvertedMediaExt = ".mpd"

// NodeChanges is the minimal set of operations that makes the persisted node
// set match a client-submitted one.
type NodeChanges struct {
	Created    []models.VideoNode
	Updated    []models.VideoNode
	DeletedIDs []string
}

// IsEmpty reports whether applying the changes would be a no-op.
func (ch NodeChanges) IsEmpty() bool {
	return len(ch.Created) == 0 && len(ch.Updated) == 0 && len(ch.DeletedIDs) == 0
}

// PlanReconcile partitions saved and incoming node sets by id:
// incoming-only ids are created (creator forced to the authenticated caller,
// never taken from the payload), saved-only ids are deleted, and shared ids
// are updated with the incoming media info after the converted-media
// preservation rule has been applied.
func PlanReconcile(saved, incoming []models.VideoNode, creator primitive.ObjectID) NodeChanges {
	savedByID := make(map[string]models.VideoNode, len(saved))
	for _, node := range saved {
		savedByID[node.ID] = node
	}

	incomingIDs := make(map[string]struct{}, len(incoming))
	var changes NodeChanges

	for _, node := range incoming {
		incomingIDs[node.ID] = struct{}{}

		if source, ok := findConvertedSource(saved, node); ok {
			// Copy, detached from the caller's slice.
			info := *node.Info
			info.URL = source.Info.URL
			info.IsConverted = source.Info.IsConverted
			node.Info = &info
		}

		if _, exists := savedByID[node.ID]; exists {
			changes.Updated = append(changes.Updated, node)
		} else {
			node.Creator = creator
			changes.Created = append(changes.Created, node)
		}
	}

	for _, node := range saved {
		if _, ok := incomingIDs[node.ID]; !ok {
			changes.DeletedIDs = append(changes.DeletedIDs, node.ID)
		}
	}

	return changes
}

// findConvertedSource looks for a saved node holding a completed conversion
// of the same file as the incoming node. "Same file" means identical id, or
// identical (name, size). The name+size match is a heuristic: a genuinely
// different re-upload sharing both values would keep the old conversion. It
// is kept here, in one place, so the policy can be tightened without touching
// the partition logic.
func findConvertedSource(saved []models.VideoNode, incoming models.VideoNode) (models.VideoNode, bool) {
	if incoming.Info == nil {
		return models.VideoNode{}, false
	}

	for _, node := range saved {
		if node.Info == nil || !node.Info.IsConverted || !strings.HasSuffix(node.Info.URL, ConvertedMediaExt) {
			continue
		}
		if node.ID == incoming.ID {
			return node, true
		}
		if node.Info.Name == incoming.Info.Name && node.Info.Size == incoming.Info.Size {
			return node, true
		}
	}

	return models.VideoNode{}, false
}
