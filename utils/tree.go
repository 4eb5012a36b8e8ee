package utils

import (
	"errors"
	"fmt"

	"vidtree/models"
)

// ErrCorruptTree marks structural damage in a node set: cycles, duplicate ids,
// dangling parents or a missing/ambiguous root. These indicate a bug upstream
// (client payload or a prior partial write), not a transient fault.
var ErrCorruptTree = errors.New("corrupt tree structure")

// maxTraversalNodes bounds every walk so malformed input can never hang a
// request. Real trees are a few dozen nodes.
const maxTraversalNodes = 10000

// TraverseNodes walks the tree breadth-first, root first, preserving sibling
// order. Every reachable node appears exactly once; a revisited id or an
// oversized tree reports ErrCorruptTree.
func TraverseNodes(root *models.TreeNode) ([]*models.TreeNode, error) {
	if root == nil {
		return nil, nil
	}

	seen := make(map[string]bool)
	queue := []*models.TreeNode{root}
	nodes := make([]*models.TreeNode, 0)

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == nil {
			continue
		}

		if seen[node.ID] {
			return nil, fmt.Errorf("%w: node %q reachable twice", ErrCorruptTree, node.ID)
		}
		if len(nodes) >= maxTraversalNodes {
			return nil, fmt.Errorf("%w: more than %d nodes", ErrCorruptTree, maxTraversalNodes)
		}

		seen[node.ID] = true
		nodes = append(nodes, node)
		queue = append(queue, node.Children...)
	}

	return nodes, nil
}

// FindNode returns the first node with the given id in breadth-first order.
// It never fails: an absent id or a malformed tree both report not-found.
func FindNode(root *models.TreeNode, id string) (*models.TreeNode, bool) {
	nodes, err := TraverseNodes(root)
	if err != nil {
		return nil, false
	}
	for _, node := range nodes {
		if node.ID == id {
			return node, true
		}
	}
	return nil, false
}

// AnyNode reports whether at least one node satisfies the predicate. Callers
// validate structure with TraverseNodes first; on malformed input AnyNode
// only considers the nodes reached before the guard tripped.
func AnyNode(root *models.TreeNode, predicate func(*models.TreeNode) bool) bool {
	nodes, _ := TraverseNodes(root)
	for _, node := range nodes {
		if predicate(node) {
			return true
		}
	}
	return false
}

// FlattenTree converts a nested tree into the flat node records the store
// persists, in breadth-first order. The nesting is the single source of
// truth for structure: each record's parent pointer, level and sibling
// order are recomputed from where the node actually sits, so a payload
// carrying a stale or fabricated parentId can never persist an orphan.
func FlattenTree(root *models.TreeNode) ([]models.VideoNode, error) {
	nested, err := TraverseNodes(root)
	if err != nil {
		return nil, err
	}
	if len(nested) == 0 {
		return nil, nil
	}

	flat := make([]models.VideoNode, len(nested))
	index := make(map[string]int, len(nested))
	for i, node := range nested {
		flat[i] = node.Flatten()
		index[node.ID] = i
	}

	flat[0].ParentID = nil
	flat[0].Level = 0
	flat[0].Order = 0
	for i, node := range nested {
		for pos, child := range node.Children {
			j := index[child.ID]
			parentID := node.ID
			flat[j].ParentID = &parentID
			flat[j].Level = flat[i].Level + 1
			flat[j].Order = pos
		}
	}

	return flat, nil
}

// BuildTree reconstructs the nested view from a flat node set. Exactly one
// record must have a nil parent pointer and every other parent pointer must
// resolve within the set; otherwise the caller fetched an incomplete set and
// gets ErrCorruptTree instead of a silently partial tree.
func BuildTree(nodes []models.VideoNode) (*models.TreeNode, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: empty node set", ErrCorruptTree)
	}

	// Index every node by id, children initialized up front.
	index := make(map[string]*models.TreeNode, len(nodes))
	for i := range nodes {
		if _, exists := index[nodes[i].ID]; exists {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrCorruptTree, nodes[i].ID)
		}
		index[nodes[i].ID] = &models.TreeNode{
			VideoNode: nodes[i],
			Children:  []*models.TreeNode{},
		}
	}

	// Attach each non-root node to its parent, preserving input order.
	var root *models.TreeNode
	for i := range nodes {
		node := index[nodes[i].ID]
		if nodes[i].ParentID == nil {
			if root != nil {
				return nil, fmt.Errorf("%w: multiple roots (%q, %q)", ErrCorruptTree, root.ID, node.ID)
			}
			root = node
			continue
		}

		parent, ok := index[*nodes[i].ParentID]
		if !ok {
			return nil, fmt.Errorf("%w: node %q references missing parent %q", ErrCorruptTree, node.ID, *nodes[i].ParentID)
		}
		parent.Children = append(parent.Children, node)
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root node", ErrCorruptTree)
	}
	return root, nil
}
