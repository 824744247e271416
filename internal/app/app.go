package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/daybook-app/core/internal/config"
	"github.com/daybook-app/core/internal/database"
	"github.com/daybook-app/core/internal/middleware"
	"github.com/daybook-app/core/internal/modules/analysis"
	"github.com/daybook-app/core/internal/modules/entry"
	pkgcron "github.com/daybook-app/core/internal/pkg/cron"
	jwtpkg "github.com/daybook-app/core/internal/pkg/jwt"
	pkgredis "github.com/daybook-app/core/internal/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg      *config.AppConfig
	router   *gin.Engine
	db       *gorm.DB
	logger   *zap.Logger
	cancel   context.CancelFunc
	sched    *pkgcron.Scheduler
	entrySvc *entry.Service
}

// New wires the database, redis, router and background jobs from cfg.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if cfg.JWTSecret != "" {
		jwtpkg.SetSecret(cfg.JWTSecret)
	}

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
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
	router.Use(cors.New(corsConfig(cfg)))

	ctx, cancel := context.WithCancel(context.Background())

	analyzer := analysis.NewService(cfg.AI, analysis.WithLogger(logger))
	entrySvc := entry.NewService(db, analyzer, logger)

	sched := pkgcron.New(logger)
	registerCronJobs(sched, db, entrySvc, logger)
	go sched.Start(ctx)

	app := &App{cfg: cfg, router: router, db: db, logger: logger, cancel: cancel, sched: sched, entrySvc: entrySvc}
	app.registerRoutes(rc)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background goroutines.
func (a *App) Shutdown() { a.cancel() }
