package controllers

import (
	"errors"
	"path"
	"strconv"
	"time"
	"vidtree/models"
	"vidtree/services"
	"vidtree/storage"
	"vidtree/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TreeController struct {
	treeService *services.TreeService
}

func NewTreeController() *TreeController {
	return &TreeController{
		treeService: services.NewTreeService(),
	}
}

// CreateTree starts a new empty tree for the authenticated user
func (tc *TreeController) CreateTree(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	detail, err := tc.treeService.Create(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, "Tree created successfully", gin.H{
		"tree": detail,
	})
}

// UpdateTree saves a full client-submitted tree snapshot
func (tc *TreeController) UpdateTree(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	treeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid tree ID")
		return
	}

	var req models.TreeSaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	tree, err := tc.treeService.Update(treeID, &req, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Tree updated successfully", gin.H{
		"tree": tree,
	})
}

// DeleteTree removes a tree and its whole subtree
func (tc *TreeController) DeleteTree(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	treeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid tree ID")
		return
	}

	if err := tc.treeService.Remove(treeID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Tree deleted successfully", nil)
}

// GetUserTrees lists the authenticated user's own trees
func (tc *TreeController) GetUserTrees(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	page, limit := paginationParams(c)

	trees, total, err := tc.treeService.GetUserTrees(userID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, "Trees retrieved successfully", gin.H{
		"trees": trees,
	}, page, limit, total)
}

// GetTree returns one of the user's own trees with its full node hierarchy
func (tc *TreeController) GetTree(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	treeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid tree ID")
		return
	}

	detail, err := tc.treeService.FindOne(treeID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if detail.Creator != userID {
		utils.ForbiddenResponse(c, "Access denied")
		return
	}

	utils.SuccessResponse(c, "Tree retrieved successfully", gin.H{
		"tree": detail,
	})
}

// GetPublicTrees lists published public trees, optionally filtered by search
func (tc *TreeController) GetPublicTrees(c *gin.Context) {
	page, limit := paginationParams(c)
	search := c.Query("search")

	trees, total, err := tc.treeService.GetPublicTrees(search, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, "Trees retrieved successfully", gin.H{
		"trees": trees,
	}, page, limit, total)
}

// GetPublicTree returns a tree for watching. Works without authentication;
// a logged-in viewer additionally gets favorite state and watch history.
func (tc *TreeController) GetPublicTree(c *gin.Context) {
	treeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid tree ID")
		return
	}

	var viewerID *primitive.ObjectID
	if id, exists := utils.GetUserIDFromContext(c); exists {
		viewerID = &id
	}

	detail, err := tc.treeService.FindOneForViewer(treeID, viewerID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// Every watch-page fetch counts as a view, best effort
	_ = tc.treeService.IncrementViews(treeID)

	utils.SuccessResponse(c, "Tree retrieved successfully", gin.H{
		"tree": detail,
	})
}

// ToggleFavorite adds or removes the tree from the user's favorites
func (tc *TreeController) ToggleFavorite(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	treeID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid tree ID")
		return
	}

	isFavorite, count, err := tc.treeService.ToggleFavorite(treeID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Favorite updated successfully", gin.H{
		"isFavorite": isFavorite,
		"favorites":  count,
	})
}

// GetUploadURL issues a presigned URL the client uploads node media to
func (tc *TreeController) GetUploadURL(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	var req models.UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	client := storage.GetClient()
	if client == nil {
		utils.ServiceUnavailableResponse(c, "Storage is not available")
		return
	}

	key := path.Join("videos", userID.Hex(), req.NodeID, req.FileName)
	uploadURL, err := client.GetPresignedUploadURL(key, 15*time.Minute)
	if err != nil {
		utils.InternalServerErrorResponse(c, "Failed to generate upload URL")
		return
	}

	utils.SuccessResponse(c, "Upload URL generated successfully", gin.H{
		"uploadUrl": uploadURL,
		"key":       key,
	})
}

func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "12"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 12
	}

	return page, limit
}

// respondServiceError maps service sentinels onto HTTP responses
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Resource not found")
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, "Access denied")
	case errors.Is(err, services.ErrCorruptTree):
		utils.UnprocessableResponse(c, err.Error())
	case errors.Is(err, services.ErrPartialWrite):
		utils.ServiceUnavailableResponse(c, "Save incomplete, please retry")
	default:
		utils.InternalServerErrorResponse(c, "Internal server error")
	}
}
