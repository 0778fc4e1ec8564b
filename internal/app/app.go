package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/faqbase/core/internal/config"
	"github.com/faqbase/core/internal/database"
	"github.com/faqbase/core/internal/middleware"
	pkgcron "github.com/faqbase/core/internal/pkg/cron"
	jwtpkg "github.com/faqbase/core/internal/pkg/jwt"
	pkgredis "github.com/faqbase/core/internal/pkg/redis"
)

// App holds all application dependencies.
type App struct {
	cfg      *config.AppConfig
	router   *gin.Engine
	db       *gorm.DB
	logger   *zap.Logger
	stopCron context.CancelFunc
}

// New initializes the application: config → DB (+seed) → Redis → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	jwtpkg.SetSecret(cfg.JWTSecret)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	if err := database.Seed(db, cfg); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	router.Use(cors.New(buildCORSConfig(cfg)))

	app := &App{cfg: cfg, router: router, db: db, logger: logger}
	app.registerRoutes(rc)

	sched := pkgcron.New()
	registerCronJobs(sched, db, logger)
	cronCtx, stop := context.WithCancel(context.Background())
	app.stopCron = stop
	sched.Start(cronCtx)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background jobs and releases pooled resources.
func (a *App) Shutdown() {
	if a.stopCron != nil {
		a.stopCron()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			a.logger.Warn("close database", zap.Error(cerr))
		}
	}
}
