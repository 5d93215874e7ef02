// Package router builds the Echo instance and registers every route of the
// API with its middleware.
package router

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ozaiithejava/portfolio-api/internal/config"
	"github.com/ozaiithejava/portfolio-api/internal/database"
	"github.com/ozaiithejava/portfolio-api/internal/handler"
	"github.com/ozaiithejava/portfolio-api/internal/middleware"
	"github.com/ozaiithejava/portfolio-api/internal/queue"
	"github.com/ozaiithejava/portfolio-api/internal/repository"
	"github.com/ozaiithejava/portfolio-api/internal/service"
)

// Deps are the long-lived collaborators built in main.  Redis and Events may
// be nil; the cache and rate limiter then pass through and no change events
// are sent.
type Deps struct {
	Config  config.Config
	DB      *sql.DB
	Dialect database.Dialect
	Redis   *redis.Client
	Events  queue.Publisher
	Logger  *zap.Logger
}

// New returns an Echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Events == nil {
		d.Events = queue.NopPublisher{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(d.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: d.Config.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	admins := repository.NewAdminRepo(d.DB)
	projects := repository.NewProjectRepo(d.DB)
	content := repository.NewContentRepo(d.DB, d.Dialect)
	auth := service.NewAuthService(admins, d.Config.JWTSecret, d.Config.AccessTTL)

	RegisterRoutes(e, d.DB)
	RegisterAuth(e, handler.NewAuthHandler(auth, d.Logger), d)
	RegisterPortfolio(e,
		handler.NewProjectHandler(projects, d.Events, d.Logger),
		handler.NewContentHandler(content, d.Events, d.Logger),
		d)
	return e
}

// RegisterRoutes registers routes that do not touch the portfolio data.
func RegisterRoutes(e *echo.Echo, db *sql.DB) {
	e.GET("/healthz", handler.Health(db))
}

// RegisterAuth mounts /api/auth.  Login is rate limited per client; /me
// requires a bearer token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, d Deps) {
	g := e.Group("/api/auth")
	g.POST("/login", a.Login, middleware.NewTokenBucket(d.Config.RateLimit, d.Redis, d.Logger))
	g.GET("/me", a.Me, middleware.JWTAuth(d.Config.JWTSecret))
}

// RegisterPortfolio mounts the project and content routes.  Public reads go
// through the Redis cache; protected writes purge it once they succeed.
func RegisterPortfolio(e *echo.Echo, p *handler.ProjectHandler, c *handler.ContentHandler, d Deps) {
	cache := middleware.NewRedisCache(d.Config.Cache, d.Redis)

	api := e.Group("/api")
	api.GET("/projects", p.List, cache)
	api.GET("/content", c.Get, cache)

	protected := []echo.MiddlewareFunc{
		middleware.JWTAuth(d.Config.JWTSecret),
		middleware.InvalidateOnWrite(d.Config.Cache, d.Redis, d.Logger),
	}
	api.GET("/projects/all", p.ListAll, protected...)
	api.POST("/projects", p.Create, protected...)
	api.PUT("/projects/:id", p.Update, protected...)
	api.DELETE("/projects/:id", p.Delete, protected...)
	api.POST("/content", c.Upsert, protected...)
}
