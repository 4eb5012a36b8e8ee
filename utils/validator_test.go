package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidtree/models"
)

func validSaveRequest() *models.TreeSaveRequest {
	return &models.TreeSaveRequest{
		Root: &models.TreeNode{
			VideoNode: models.VideoNode{ID: "root-1"},
		},
		Title:  "My Tree",
		Status: models.TreeStatusPublic,
	}
}

func TestValidateSaveRequest(t *testing.T) {
	require.NoError(t, ValidateStruct(validSaveRequest()))
}

func TestValidateSaveRequestMissingRoot(t *testing.T) {
	req := validSaveRequest()
	req.Root = nil
	assert.Error(t, ValidateStruct(req))
}

func TestValidateSaveRequestStatus(t *testing.T) {
	req := validSaveRequest()

	req.Status = models.TreeStatusPrivate
	assert.NoError(t, ValidateStruct(req))

	req.Status = "unlisted"
	assert.Error(t, ValidateStruct(req))

	req.Status = ""
	assert.Error(t, ValidateStruct(req))
}

func TestValidateNodeID(t *testing.T) {
	valid := []string{
		"a",
		"node-1",
		"c9b1f1e2-8a77-4f43-9d15-6a46a8f3d210",
		"Abc_123",
	}
	for _, id := range valid {
		assert.NoError(t, ValidateVar(id, "node_id"), id)
	}

	invalid := []string{
		"",
		"has space",
		"semi;colon",
		"$where",
		"a/b",
		"0123456789012345678901234567890123456789012345678901234567890123x", // 65 chars
	}
	for _, id := range invalid {
		assert.Error(t, ValidateVar(id, "node_id"), id)
	}
}
