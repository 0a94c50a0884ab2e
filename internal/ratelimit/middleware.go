package ratelimit

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Middleware struct {
	limiter RateLimiter
}

func NewMiddleware(limiter RateLimiter) *Middleware {
	return &Middleware{
		limiter: limiter,
	}
}

// ViewerID middleware resolves the viewer identity from the request and
// stores it in the gin context for handlers.
func (m *Middleware) ViewerID() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewerID := c.GetHeader("X-Viewer-ID")
		if viewerID == "" {
			viewerID = c.Query("viewer_id")
		}

		if viewerID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Viewer ID required",
			})
			c.Abort()
			return
		}

		c.Set("viewer_id", viewerID)
		c.Next()
	}
}

// LocationRateLimit gates position reports per viewer.
func (m *Middleware) LocationRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewerID := c.GetString("viewer_id")

		allowed, err := m.limiter.AllowLocationUpdate(c.Request.Context(), viewerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check rate limit",
			})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Location update rate limit exceeded. Please try again later.",
				"code":  "RATE_LIMIT_LOCATION",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// BlockRateLimit gates block list mutations per viewer.
func (m *Middleware) BlockRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		viewerID := c.GetString("viewer_id")

		allowed, err := m.limiter.AllowBlockChange(c.Request.Context(), viewerID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check rate limit",
			})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Block rate limit exceeded. Please try again later.",
				"code":  "RATE_LIMIT_BLOCK",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
