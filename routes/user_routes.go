package routes

import (
	"vidtree/controllers"
	"vidtree/middleware"

	"github.com/gin-gonic/gin"
)

func UserRoutes(r *gin.RouterGroup) {
	userController := controllers.NewUserController()

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", userController.GetProfile)
		users.PUT("/me", userController.UpdateProfile)
		users.DELETE("/me", userController.DeleteAccount)
	}
}
