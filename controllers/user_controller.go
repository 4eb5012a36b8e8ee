package controllers

import (
	"vidtree/models"
	"vidtree/services"
	"vidtree/utils"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService *services.UserService
}

func NewUserController() *UserController {
	return &UserController{
		userService: services.NewUserService(),
	}
}

// GetProfile returns the authenticated user's profile
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	profile, err := uc.userService.GetProfile(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile retrieved successfully", gin.H{
		"user": profile,
	})
}

// UpdateProfile updates the authenticated user's display info
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request data")
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	profile, err := uc.userService.UpdateProfile(userID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Profile updated successfully", gin.H{
		"user": profile,
	})
}

// DeleteAccount deactivates the account and cascades tree removal
func (uc *UserController) DeleteAccount(c *gin.Context) {
	userID, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	if err := uc.userService.DeleteAccount(userID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, "Account deleted successfully", nil)
}
