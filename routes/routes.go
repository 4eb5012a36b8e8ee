package routes

import (
	"vidtree/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine) {
	// Global middleware
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.SecurityHeadersMiddleware())

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		// Public routes
		AuthRoutes(v1)

		// Protected routes
		UserRoutes(v1)
		TreeRoutes(v1)
		HistoryRoutes(v1)
	}
}
