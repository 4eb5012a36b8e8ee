package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtree/models"
)

func saveRequest(title string, root *models.TreeNode, isEditing bool) *models.TreeSaveRequest {
	return &models.TreeSaveRequest{
		Root:      root,
		Title:     title,
		Status:    models.TreeStatusPublic,
		IsEditing: isEditing,
	}
}

func treeNode(id string, info *models.NodeInfo, children ...*models.TreeNode) *models.TreeNode {
	return &models.TreeNode{
		VideoNode: models.VideoNode{ID: id, Info: info},
		Children:  children,
	}
}

func TestDeriveIsEditing(t *testing.T) {
	complete := &models.NodeInfo{Name: "a.mp4", Progress: 100}
	uploading := &models.NodeInfo{Name: "b.mp4", Progress: 40}

	tests := []struct {
		name string
		req  *models.TreeSaveRequest
		want bool
	}{
		{
			name: "publishable tree keeps client flag false",
			req:  saveRequest("My Tree", treeNode("root", complete), false),
			want: false,
		},
		{
			name: "client flag true is respected",
			req:  saveRequest("My Tree", treeNode("root", complete), true),
			want: true,
		},
		{
			name: "missing title forces editing",
			req:  saveRequest("", treeNode("root", complete), false),
			want: true,
		},
		{
			name: "node without media forces editing",
			req:  saveRequest("My Tree", treeNode("root", complete, treeNode("child", nil)), false),
			want: true,
		},
		{
			name: "upload in flight forces editing",
			req:  saveRequest("My Tree", treeNode("root", complete, treeNode("child", uploading)), false),
			want: true,
		},
		{
			name: "finished upload does not force editing",
			req:  saveRequest("My Tree", treeNode("root", complete, treeNode("child", complete)), false),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveIsEditing(tt.req))
		})
	}
}

func TestViewerMayWatch(t *testing.T) {
	creator := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	publicTree := &models.VideoTree{Creator: creator, Status: models.TreeStatusPublic}
	privateTree := &models.VideoTree{Creator: creator, Status: models.TreeStatusPrivate}
	editingTree := &models.VideoTree{Creator: creator, Status: models.TreeStatusPublic, IsEditing: true}

	// Public finished trees are open to everyone, even anonymously.
	assert.True(t, viewerMayWatch(publicTree, nil))
	assert.True(t, viewerMayWatch(publicTree, &stranger))

	// Private and still-editing trees are creator-only.
	assert.False(t, viewerMayWatch(privateTree, nil))
	assert.False(t, viewerMayWatch(privateTree, &stranger))
	assert.True(t, viewerMayWatch(privateTree, &creator))

	assert.False(t, viewerMayWatch(editingTree, nil))
	assert.False(t, viewerMayWatch(editingTree, &stranger))
	assert.True(t, viewerMayWatch(editingTree, &creator))
}

func TestNodeIncomplete(t *testing.T) {
	assert.True(t, nodeIncomplete(treeNode("n", nil)))
	assert.True(t, nodeIncomplete(treeNode("n", &models.NodeInfo{Progress: 1})))
	assert.True(t, nodeIncomplete(treeNode("n", &models.NodeInfo{Progress: 99.9})))

	// Progress 0 means no upload started for a node that still has info
	// attached, which is a legal resting state.
	assert.False(t, nodeIncomplete(treeNode("n", &models.NodeInfo{Progress: 0})))
	assert.False(t, nodeIncomplete(treeNode("n", &models.NodeInfo{Progress: 100})))
}
