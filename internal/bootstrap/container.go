package bootstrap

import (
	"context"
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"ccrt-portal/backend/config"
	"ccrt-portal/backend/internal/api/handler"
	"ccrt-portal/backend/internal/api/middleware"
	"ccrt-portal/backend/internal/api/router"
	"ccrt-portal/backend/internal/repository"
	"ccrt-portal/backend/internal/service"
	"ccrt-portal/backend/pkg/database"
	"ccrt-portal/backend/pkg/jwt"
	applogger "ccrt-portal/backend/pkg/logger"
	"ccrt-portal/backend/pkg/redis"
	"ccrt-portal/backend/pkg/session"
)

// BuildContainer registers every component of the portal. Nothing is
// constructed until it is first invoked.
func BuildContainer(cfg *config.Config) *do.Injector {
	inj := do.New()

	// config
	do.ProvideValue(inj, cfg)

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		return applogger.NewLogger(&do.MustInvoke[*config.Config](i).Log)
	})

	// primary store; only a missing base schema stops the server, a failed
	// upgrade step keeps serving on the previous schema
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)

		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, log)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(context.Background(), db, log); err != nil {
			if errors.Is(err, database.ErrSchemaUnavailable) {
				return nil, err
			}
			log.Error("database migration incomplete", zap.Error(err))
		}
		return db, nil
	})

	// session store
	do.Provide(inj, func(i *do.Injector) (*session.Store, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return session.Open(&cfg.Session, do.MustInvoke[*zap.Logger](i))
	})

	do.Provide(inj, func(i *do.Injector) (*cron.Cron, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return session.NewSweeper(do.MustInvoke[*session.Store](i), cfg.Session.SweepSchedule, do.MustInvoke[*zap.Logger](i))
	})

	do.Provide(inj, func(i *do.Injector) (*jwt.Manager, error) {
		return jwt.NewManager(do.MustInvoke[*config.Config](i).Session.Secret), nil
	})

	// Redis is optional: a nil client makes rate limiting local
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		if !cfg.Redis.Enabled {
			return nil, nil
		}
		rdb, err := redis.NewClient(&cfg.Redis, log)
		if err != nil {
			log.Warn("redis unavailable, rate limiting falls back to memory", zap.Error(err))
			return nil, nil
		}
		return rdb, nil
	})

	do.Provide(inj, func(i *do.Injector) (middleware.Limiter, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return middleware.NewLimiter(
			do.MustInvoke[*redis.Client](i),
			cfg.RateLimit.AuthLimit,
			cfg.RateLimit.AuthWindow,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Repository
	do.Provide(inj, func(i *do.Injector) (*repository.Repository, error) {
		return repository.NewRepository(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (*service.Service, error) {
		svc := service.NewService(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*repository.Repository](i),
			do.MustInvoke[*session.Store](i),
			do.MustInvoke[*jwt.Manager](i),
			do.MustInvoke[*zap.Logger](i),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := svc.Auth.EnsureDefaultAdmin(ctx); err != nil {
			return nil, err
		}
		return svc, nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.Handler, error) {
		return handler.NewHandler(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*service.Service](i),
			do.MustInvoke[*repository.Repository](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	// Router
	do.Provide(inj, func(i *do.Injector) (*gin.Engine, error) {
		return router.Setup(
			do.MustInvoke[*config.Config](i),
			do.MustInvoke[*handler.Handler](i),
			do.MustInvoke[*service.Service](i).Auth,
			do.MustInvoke[middleware.Limiter](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	return inj
}

// Close releases the stores held by the container. Call it only after the
// router was built, otherwise the lookups below construct the stores.
func Close(inj *do.Injector) {
	log, err := do.Invoke[*zap.Logger](inj)
	if err != nil {
		log = zap.NewNop()
	}

	if rdb, err := do.Invoke[*redis.Client](inj); err == nil && rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn("failed to close redis", zap.Error(err))
		}
	}
	if store, err := do.Invoke[*session.Store](inj); err == nil {
		if err := store.Close(); err != nil {
			log.Warn("failed to close session store", zap.Error(err))
		}
	}
	if db, err := do.Invoke[*gorm.DB](inj); err == nil {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Warn("failed to close database", zap.Error(err))
			}
		}
	}
}
