package app

import (
	"time"

	"github.com/daybook-app/core/internal/middleware"
	"github.com/daybook-app/core/internal/modules/auth"
	"github.com/daybook-app/core/internal/modules/entry"
	"github.com/daybook-app/core/internal/modules/person"
	pkgredis "github.com/daybook-app/core/internal/pkg/redis"
	"github.com/daybook-app/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

var processStart = time.Now()

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/", func(c *gin.Context) {
		response.OK(c, gin.H{
			"name":    "daybook-core",
			"version": "1.0.0",
		})
	})
	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{
			"status": "ok",
			"uptime": time.Since(processStart).Round(time.Second).String(),
		})
	})

	api := r.Group("/api/v1")
	// OptionalAuth runs first so rate limiting can exempt signed-in users.
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.Idempotence(rc.Raw()))

	auth.NewHandler(auth.NewService(db), a.cfg).RegisterRoutes(api, authMW)
	entry.NewHandler(a.entrySvc).RegisterRoutes(api, authMW)
	person.NewHandler(person.NewService(db)).RegisterRoutes(api, authMW)
}
