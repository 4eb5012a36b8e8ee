package controllers

import (
	"vidtree/models"
	"vidtree/services"
	"vidtree/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type HistoryController struct {
	historyService *services.HistoryService
}

func NewHistoryController() *HistoryController {
	return &HistoryController{
		historyService: services.NewHistoryService(),
	}
}

// PutHistory records or replaces the viewer's progress for a tree
func (hc *HistoryController) PutHistory(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	var req models.HistoryPutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	history, err := hc.historyService.Put(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "History saved successfully", gin.H{
		"history": history,
	})
}

// GetHistory lists the viewer's watch history, newest first
func (hc *HistoryController) GetHistory(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	page, limit := paginationParams(c)

	histories, total, err := hc.historyService.GetForUser(userID, page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.PaginatedResponse(c, "History retrieved successfully", gin.H{
		"histories": histories,
	}, page, limit, total)
}

// DeleteHistory removes the viewer's history entry for one tree
func (hc *HistoryController) DeleteHistory(c *gin.Context) {
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

	if err := hc.historyService.DeleteForUser(userID, treeID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "History deleted successfully", nil)
}
