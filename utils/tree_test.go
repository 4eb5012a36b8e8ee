package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtree/models"
)

func strPtr(s string) *string { return &s }

func flatNode(id string, parentID *string, level int) models.VideoNode {
	return models.VideoNode{ID: id, ParentID: parentID, Level: level}
}

func nestedNode(id string, children ...*models.TreeNode) *models.TreeNode {
	return &models.TreeNode{
		VideoNode: models.VideoNode{ID: id},
		Children:  children,
	}
}

func TestTraverseNodesBreadthFirst(t *testing.T) {
	//      root
	//     /    \
	//    a      b
	//   / \      \
	//  c   d      e
	root := nestedNode("root",
		nestedNode("a", nestedNode("c"), nestedNode("d")),
		nestedNode("b", nestedNode("e")),
	)

	nodes, err := TraverseNodes(root)
	require.NoError(t, err)

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{"root", "a", "b", "c", "d", "e"}, ids)

	// Restartable: a second walk yields the same sequence.
	again, err := TraverseNodes(root)
	require.NoError(t, err)
	require.Len(t, again, len(nodes))
	for i := range nodes {
		assert.Equal(t, nodes[i].ID, again[i].ID)
	}
}

func TestTraverseNodesSingleNode(t *testing.T) {
	nodes, err := TraverseNodes(nestedNode("only"))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "only", nodes[0].ID)
}

func TestTraverseNodesNilRoot(t *testing.T) {
	nodes, err := TraverseNodes(nil)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestTraverseNodesCycle(t *testing.T) {
	a := nestedNode("a")
	b := nestedNode("b")
	a.Children = []*models.TreeNode{b}
	b.Children = []*models.TreeNode{a}

	_, err := TraverseNodes(a)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptTree)
}

func TestTraverseNodesDuplicateID(t *testing.T) {
	root := nestedNode("root", nestedNode("x"), nestedNode("x"))

	_, err := TraverseNodes(root)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCorruptTree)
}

func TestFindNode(t *testing.T) {
	root := nestedNode("root",
		nestedNode("a", nestedNode("c")),
		nestedNode("b"),
	)

	node, found := FindNode(root, "c")
	require.True(t, found)
	assert.Equal(t, "c", node.ID)

	_, found = FindNode(root, "missing")
	assert.False(t, found)

	_, found = FindNode(nil, "root")
	assert.False(t, found)
}

func TestAnyNode(t *testing.T) {
	partial := &models.NodeInfo{Name: "clip.mp4", Progress: 42}
	done := &models.NodeInfo{Name: "intro.mp4", Progress: 100}

	root := nestedNode("root")
	root.Info = done
	child := nestedNode("a")
	child.Info = partial
	root.Children = []*models.TreeNode{child}

	uploading := func(n *models.TreeNode) bool {
		return n.Info != nil && n.Info.Progress > 0 && n.Info.Progress < 100
	}
	missingInfo := func(n *models.TreeNode) bool { return n.Info == nil }

	assert.True(t, AnyNode(root, uploading))
	assert.False(t, AnyNode(root, missingInfo))

	child.Info = nil
	assert.True(t, AnyNode(root, missingInfo))
	assert.False(t, AnyNode(nil, missingInfo))
}

func TestFlattenTreeDerivesStructureFromNesting(t *testing.T) {
	// The payload carries a fabricated parent pointer and wrong levels; the
	// nesting wins.
	child := nestedNode("child")
	child.ParentID = strPtr("ghost")
	child.Level = 7

	grandchild := nestedNode("grandchild")
	grandchild.ParentID = nil
	child.Children = []*models.TreeNode{grandchild}

	root := nestedNode("root", child)
	root.ParentID = strPtr("elsewhere")
	root.Level = 3

	flat, err := FlattenTree(root)
	require.NoError(t, err)
	require.Len(t, flat, 3)

	byID := make(map[string]models.VideoNode, len(flat))
	for _, n := range flat {
		byID[n.ID] = n
	}

	assert.Nil(t, byID["root"].ParentID)
	assert.Equal(t, 0, byID["root"].Level)

	require.NotNil(t, byID["child"].ParentID)
	assert.Equal(t, "root", *byID["child"].ParentID)
	assert.Equal(t, 1, byID["child"].Level)

	require.NotNil(t, byID["grandchild"].ParentID)
	assert.Equal(t, "child", *byID["grandchild"].ParentID)
	assert.Equal(t, 2, byID["grandchild"].Level)

	// The normalized set always rebuilds.
	_, err = BuildTree(flat)
	require.NoError(t, err)
}

func TestFlattenTreeAssignsSiblingOrder(t *testing.T) {
	root := nestedNode("root",
		nestedNode("first", nestedNode("only")),
		nestedNode("second"),
		nestedNode("third"),
	)

	flat, err := FlattenTree(root)
	require.NoError(t, err)

	order := make(map[string]int, len(flat))
	for _, n := range flat {
		order[n.ID] = n.Order
	}

	assert.Equal(t, 0, order["root"])
	assert.Equal(t, 0, order["first"])
	assert.Equal(t, 1, order["second"])
	assert.Equal(t, 2, order["third"])
	assert.Equal(t, 0, order["only"])
}

func TestBuildTree(t *testing.T) {
	nodes := []models.VideoNode{
		flatNode("root", nil, 0),
		flatNode("a", strPtr("root"), 1),
		flatNode("b", strPtr("root"), 1),
		flatNode("c", strPtr("a"), 2),
	}

	root, err := BuildTree(nodes)
	require.NoError(t, err)
	assert.Equal(t, "root", root.ID)
	require.Len(t, root.Children, 2)

	// Children preserve input order.
	assert.Equal(t, "a", root.Children[0].ID)
	assert.Equal(t, "b", root.Children[1].ID)
	require.Len(t, root.Children[0].Children, 1)
	assert.Equal(t, "c", root.Children[0].Children[0].ID)
	assert.Empty(t, root.Children[1].Children)
}

func TestBuildTreeTraverseInverse(t *testing.T) {
	nodes := []models.VideoNode{
		flatNode("r", nil, 0),
		flatNode("n1", strPtr("r"), 1),
		flatNode("n2", strPtr("r"), 1),
		flatNode("n3", strPtr("n1"), 2),
		flatNode("n4", strPtr("n1"), 2),
		flatNode("n5", strPtr("n2"), 2),
	}

	root, err := BuildTree(nodes)
	require.NoError(t, err)

	flat, err := FlattenTree(root)
	require.NoError(t, err)
	require.Len(t, flat, len(nodes))

	want := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		want[n.ID] = true
	}
	for _, n := range flat {
		assert.True(t, want[n.ID], "unexpected node %q", n.ID)
		delete(want, n.ID)
	}
	assert.Empty(t, want)
}

func TestBuildTreeStructuralErrors(t *testing.T) {
	tests := []struct {
		name  string
		nodes []models.VideoNode
	}{
		{"empty set", nil},
		{"no root", []models.VideoNode{
			flatNode("a", strPtr("b"), 1),
			flatNode("b", strPtr("a"), 1),
		}},
		{"multiple roots", []models.VideoNode{
			flatNode("a", nil, 0),
			flatNode("b", nil, 0),
		}},
		{"dangling parent", []models.VideoNode{
			flatNode("root", nil, 0),
			flatNode("a", strPtr("ghost"), 1),
		}},
		{"duplicate id", []models.VideoNode{
			flatNode("root", nil, 0),
			flatNode("root", nil, 0),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTree(tt.nodes)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrCorruptTree)
		})
	}
}
