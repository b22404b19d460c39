package employee

import (
	"go-directory/internal/config"
	"go-directory/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	limits config.RateLimitConfig,
	rdb *redis.Client,
) {
	readLimit := middleware.RateLimitByIP(rate.Limit(limits.ReadPerSecond), limits.ReadBurst)
	writeLimit := middleware.RateLimitByIP(rate.Limit(limits.WritePerSecond), limits.WriteBurst)

	employees := r.Group("/employees")
	{
		employees.GET("", readLimit, handler.GetAll)
		employees.GET("/:id", readLimit, handler.GetById)

		employees.POST("",
			writeLimit,
			middleware.Idempotency(rdb),
			handler.Create,
		)

		employees.PUT("/:id", writeLimit, handler.Update)
		employees.PATCH("/:id", writeLimit, handler.Update)
		employees.DELETE("/:id", writeLimit, handler.Delete)
	}
}
