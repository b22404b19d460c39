package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go-directory/internal/config"
	"go-directory/internal/dashboard"
	"go-directory/internal/employee"
	"go-directory/internal/messaging/kafka"
	"go-directory/internal/middleware"
	"go-directory/internal/shared/apperror"
	"go-directory/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are the shared resources the HTTP modules are built from.
// Redis and Outbox are optional.
type Dependencies struct {
	Config   *config.Config
	DB       *sql.DB
	GormDB   *gorm.DB
	Redis    *redis.Client
	Outbox   kafka.OutboxRepository
	Registry *prometheus.Registry
	Logger   *zap.Logger
}

// NewRouter builds the gin engine with every module registered.
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}
	registry := deps.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(logger.Named("http")),
		middleware.NewHTTPMetrics(registry).Handler(),
	)

	router.GET("/healthz", healthHandler(deps.DB, deps.Redis))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	registerModules(router, deps, logger)

	return router
}

func registerModules(router *gin.Engine, deps Dependencies, logger *zap.Logger) {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(deps.GormDB)
	dashboardRepo := dashboard.NewRepository(deps.GormDB)

	// --- Services ---
	employeeService := employee.NewServiceWithOutbox(deps.DB, employeeRepo, deps.Outbox, deps.Redis, logger)
	dashboardService := dashboard.NewService(dashboardRepo, deps.Redis, logger)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, deps.Config.RateLimit, deps.Redis)
		dashboard.RegisterRoutes(api, dashboardHandler, deps.Config.RateLimit)
	}
}

func healthHandler(db *sql.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		checks := gin.H{"database": "ok"}
		healthy := true

		if err := db.PingContext(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}
		if rdb != nil {
			checks["redis"] = "ok"
			if err := rdb.Ping(ctx).Err(); err != nil {
				checks["redis"] = err.Error()
				healthy = false
			}
		}

		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, apperror.CodeServiceUnavailable, "Service unavailable", checks)
			return
		}
		response.Success(c, http.StatusOK, checks, nil)
	}
}
