package dashboard

import (
	"go-directory/internal/config"
	"go-directory/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, limits config.RateLimitConfig) {
	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("/stats",
			middleware.RateLimitByIP(rate.Limit(limits.ReadPerSecond), limits.ReadBurst),
			handler.GetStats,
		)
	}
}
