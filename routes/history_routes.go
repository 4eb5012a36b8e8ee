package routes

import (
	"vidtree/controllers"
	"vidtree/middleware"

	"github.com/gin-gonic/gin"
)

func HistoryRoutes(r *gin.RouterGroup) {
	historyController := controllers.NewHistoryController()

	histories := r.Group("/histories")
	histories.Use(middleware.AuthMiddleware())
	{
		histories.GET("", historyController.GetHistory)
		histories.PUT("", historyController.PutHistory)
		histories.DELETE("/:id", historyController.DeleteHistory)
	}
}
