package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"vidtree/models"
	"vidtree/utils"
)

func strPtr(s string) *string { return &s }

func savedNode(id string, parentID *string, level int, info *models.NodeInfo) models.VideoNode {
	return models.VideoNode{
		ID:       id,
		ParentID: parentID,
		Creator:  primitive.NewObjectID(),
		Level:    level,
		Info:     info,
	}
}

func TestPlanReconcilePartition(t *testing.T) {
	creator := primitive.NewObjectID()

	saved := []models.VideoNode{
		savedNode("root", nil, 0, &models.NodeInfo{Name: "intro.mp4"}),
		savedNode("keep", strPtr("root"), 1, &models.NodeInfo{Name: "a.mp4"}),
		savedNode("gone", strPtr("root"), 1, &models.NodeInfo{Name: "b.mp4"}),
	}
	incoming := []models.VideoNode{
		{ID: "root", Level: 0, Info: &models.NodeInfo{Name: "intro.mp4"}},
		{ID: "keep", ParentID: strPtr("root"), Level: 1, Info: &models.NodeInfo{Name: "a2.mp4"}},
		{ID: "new", ParentID: strPtr("root"), Level: 1, Info: &models.NodeInfo{Name: "c.mp4"}},
	}

	changes := PlanReconcile(saved, incoming, creator)

	require.Len(t, changes.Created, 1)
	assert.Equal(t, "new", changes.Created[0].ID)

	require.Len(t, changes.DeletedIDs, 1)
	assert.Equal(t, "gone", changes.DeletedIDs[0])

	require.Len(t, changes.Updated, 2)
	updatedIDs := []string{changes.Updated[0].ID, changes.Updated[1].ID}
	assert.ElementsMatch(t, []string{"root", "keep"}, updatedIDs)

	// The three groups are disjoint and cover every saved and incoming id.
	all := make(map[string]int)
	for _, n := range changes.Created {
		all[n.ID]++
	}
	for _, n := range changes.Updated {
		all[n.ID]++
	}
	for _, id := range changes.DeletedIDs {
		all[id]++
	}
	assert.Len(t, all, 4)
	for id, count := range all {
		assert.Equal(t, 1, count, "node %q assigned to more than one group", id)
	}
}

func TestPlanReconcileForcesCreator(t *testing.T) {
	caller := primitive.NewObjectID()
	forged := primitive.NewObjectID()

	incoming := []models.VideoNode{
		{ID: "root", Creator: forged, Info: &models.NodeInfo{Name: "x.mp4"}},
	}

	changes := PlanReconcile(nil, incoming, caller)

	require.Len(t, changes.Created, 1)
	assert.Equal(t, caller, changes.Created[0].Creator)
}

func TestPlanReconcileEmptySets(t *testing.T) {
	creator := primitive.NewObjectID()

	assert.True(t, PlanReconcile(nil, nil, creator).IsEmpty())

	saved := []models.VideoNode{savedNode("root", nil, 0, nil)}
	changes := PlanReconcile(saved, nil, creator)
	assert.Empty(t, changes.Created)
	assert.Empty(t, changes.Updated)
	assert.Equal(t, []string{"root"}, changes.DeletedIDs)
}

func TestPlanReconcileAfterFlattenKeepsStructureIntact(t *testing.T) {
	creator := primitive.NewObjectID()

	// A new child nested under root but claiming a parent outside the tree.
	child := &models.TreeNode{
		VideoNode: models.VideoNode{
			ID:       "child",
			ParentID: strPtr("ghost"),
			Level:    9,
			Info:     &models.NodeInfo{Name: "clip.mp4"},
		},
	}
	root := &models.TreeNode{
		VideoNode: models.VideoNode{ID: "root", Info: &models.NodeInfo{Name: "intro.mp4"}},
		Children:  []*models.TreeNode{child},
	}

	incoming, err := utils.FlattenTree(root)
	require.NoError(t, err)

	saved := []models.VideoNode{
		savedNode("root", nil, 0, &models.NodeInfo{Name: "intro.mp4"}),
	}

	changes := PlanReconcile(saved, incoming, creator)
	require.Len(t, changes.Created, 1)

	// The created record points at its real parent at the right level.
	created := changes.Created[0]
	require.NotNil(t, created.ParentID)
	assert.Equal(t, "root", *created.ParentID)
	assert.Equal(t, 1, created.Level)

	// The resulting persisted set stays materializable.
	persisted := append(saved[:len(saved):len(saved)], changes.Created...)
	rebuilt, err := utils.BuildTree(persisted)
	require.NoError(t, err)
	require.Len(t, rebuilt.Children, 1)
	assert.Equal(t, "child", rebuilt.Children[0].ID)
}

func TestPlanReconcilePreservesConvertedMediaByID(t *testing.T) {
	creator := primitive.NewObjectID()

	saved := []models.VideoNode{
		savedNode("root", nil, 0, &models.NodeInfo{
			Name:        "intro.mp4",
			Size:        1024,
			URL:         "media/intro/manifest.mpd",
			IsConverted: true,
		}),
	}
	incoming := []models.VideoNode{
		{ID: "root", Info: &models.NodeInfo{
			Name:        "intro.mp4",
			Size:        1024,
			URL:         "upload/intro.mp4",
			IsConverted: false,
			Label:       "Intro",
		}},
	}

	changes := PlanReconcile(saved, incoming, creator)

	require.Len(t, changes.Updated, 1)
	info := changes.Updated[0].Info
	assert.Equal(t, "media/intro/manifest.mpd", info.URL)
	assert.True(t, info.IsConverted)
	// The rest of the descriptor still comes from the client.
	assert.Equal(t, "Intro", info.Label)
}

func TestPlanReconcilePreservesConvertedMediaByNameAndSize(t *testing.T) {
	creator := primitive.NewObjectID()

	saved := []models.VideoNode{
		savedNode("old-id", nil, 0, &models.NodeInfo{
			Name:        "clip.mp4",
			Size:        2048,
			URL:         "media/clip/manifest.mpd",
			IsConverted: true,
		}),
	}
	// The client re-created the node under a new id for the same file.
	incoming := []models.VideoNode{
		{ID: "new-id", Info: &models.NodeInfo{
			Name:        "clip.mp4",
			Size:        2048,
			URL:         "upload/clip.mp4",
			IsConverted: false,
		}},
	}

	changes := PlanReconcile(saved, incoming, creator)

	require.Len(t, changes.Created, 1)
	assert.Equal(t, "media/clip/manifest.mpd", changes.Created[0].Info.URL)
	assert.True(t, changes.Created[0].Info.IsConverted)
	assert.Equal(t, []string{"old-id"}, changes.DeletedIDs)
}

func TestPlanReconcileNoPreservationCases(t *testing.T) {
	creator := primitive.NewObjectID()

	tests := []struct {
		name  string
		saved *models.NodeInfo
		in    *models.NodeInfo
	}{
		{
			"saved not converted",
			&models.NodeInfo{Name: "a.mp4", Size: 10, URL: "upload/a.mp4", IsConverted: false},
			&models.NodeInfo{Name: "a.mp4", Size: 10, URL: "upload/a2.mp4"},
		},
		{
			"saved url not a manifest",
			&models.NodeInfo{Name: "a.mp4", Size: 10, URL: "media/a.mp4", IsConverted: true},
			&models.NodeInfo{Name: "a.mp4", Size: 10, URL: "upload/a2.mp4"},
		},
		{
			"different file",
			&models.NodeInfo{Name: "a.mp4", Size: 10, URL: "media/a/manifest.mpd", IsConverted: true},
			&models.NodeInfo{Name: "b.mp4", Size: 20, URL: "upload/b.mp4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := []models.VideoNode{savedNode("other", nil, 0, tt.saved)}
			incoming := []models.VideoNode{{ID: "node", Info: tt.in}}

			changes := PlanReconcile(saved, incoming, creator)

			require.Len(t, changes.Created, 1)
			assert.Equal(t, tt.in.URL, changes.Created[0].Info.URL)
			assert.False(t, changes.Created[0].Info.IsConverted)
		})
	}
}

func TestPlanReconcileNilInfo(t *testing.T) {
	creator := primitive.NewObjectID()

	saved := []models.VideoNode{
		savedNode("root", nil, 0, &models.NodeInfo{
			Name: "a.mp4", Size: 10, URL: "media/a/manifest.mpd", IsConverted: true,
		}),
	}
	// A node without media info can never match a converted source.
	incoming := []models.VideoNode{{ID: "root", Info: nil}}

	changes := PlanReconcile(saved, incoming, creator)

	require.Len(t, changes.Updated, 1)
	assert.Nil(t, changes.Updated[0].Info)
}
