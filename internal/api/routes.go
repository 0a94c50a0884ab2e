package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wandermate/nearby/internal/ratelimit"
)

func SetupRoutes(r *gin.Engine, handler *Handler, wsHandler WebSocketHandler, rlMiddleware *ratelimit.Middleware) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Viewer-ID"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	api := r.Group("/api")
	{
		// Location routes
		location := api.Group("/location")
		location.Use(rlMiddleware.ViewerID())
		{
			location.POST("/update", rlMiddleware.LocationRateLimit(), handler.UpdateLocation)
		}

		// Nearby travelers
		api.GET("/nearby", rlMiddleware.ViewerID(), handler.GetNearby)

		// Block list
		blocks := api.Group("")
		blocks.Use(rlMiddleware.ViewerID(), rlMiddleware.BlockRateLimit())
		{
			blocks.POST("/block", handler.Block)
			blocks.POST("/unblock", handler.Unblock)
		}

		// Health check (no rate limit)
		api.GET("/health", handler.Health)
	}

	// WebSocket route
	r.GET("/ws", wsHandler.HandleWebSocket)
}

type WebSocketHandler interface {
	HandleWebSocket(c *gin.Context)
}
