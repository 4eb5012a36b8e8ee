package routes

import (
	"vidtree/controllers"
	"vidtree/middleware"

	"github.com/gin-gonic/gin"
)

func TreeRoutes(r *gin.RouterGroup) {
	treeController := controllers.NewTreeController()

	trees := r.Group("/trees")
	{
		// Public watch routes. Optional auth so a logged-in viewer gets
		// favorite state and history on top of the tree itself.
		public := trees.Group("/public")
		public.Use(middleware.OptionalAuthMiddleware())
		{
			public.GET("", treeController.GetPublicTrees)
			public.GET("/:id", treeController.GetPublicTree)
		}

		// Creator routes
		protected := trees.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("", treeController.GetUserTrees)
			protected.POST("", treeController.CreateTree)
			protected.GET("/:id", treeController.GetTree)
			protected.PATCH("/:id", treeController.UpdateTree)
			protected.DELETE("/:id", treeController.DeleteTree)
			protected.PATCH("/:id/favorites", treeController.ToggleFavorite)
			protected.POST("/upload-url", treeController.GetUploadURL)
		}
	}
}
