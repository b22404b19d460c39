package app

import (
	"database/sql"
	"errors"

	"go-directory/internal/config"
	"go-directory/internal/messaging/kafka"
	"go-directory/internal/shared/connection"
	"go-directory/internal/shared/migration"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	Router *gin.Engine
	db     *sql.DB
	rdb    *redis.Client
}

// BuildApp connects the infrastructure, applies migrations and wires the
// HTTP modules.
func BuildApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	log := logger.Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if cfg.Database.RunMigrations {
		if err := migration.Up(sqlDB); err != nil {
			sqlDB.Close()
			return nil, err
		}
		log.Info("database migrations applied")
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis, logger)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	if rdb == nil {
		log.Warn("REDIS_ADDR not set, dashboard cache and idempotency disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router := NewRouter(Dependencies{
		Config:   cfg,
		DB:       sqlDB,
		GormDB:   gormDB,
		Redis:    rdb,
		Outbox:   kafka.NewOutboxRepository(sqlDB),
		Registry: registry,
		Logger:   logger,
	})

	return &App{Router: router, db: sqlDB, rdb: rdb}, nil
}

func (a *App) Close() error {
	var errs []error
	if a.rdb != nil {
		errs = append(errs, a.rdb.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}
