package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bookshelf-api/config"
	"github.com/oksasatya/bookshelf-api/internal/container"
	handlers "github.com/oksasatya/bookshelf-api/internal/interface/http"
	"github.com/oksasatya/bookshelf-api/internal/interface/middleware"
	"github.com/oksasatya/bookshelf-api/internal/metrics"
	"github.com/oksasatya/bookshelf-api/internal/router/modules"
	"github.com/oksasatya/bookshelf-api/pkg/validation"
)

// New builds the gin engine: global middleware, every module and the 404 fallback.
func New(c *container.Container) *gin.Engine {
	validation.Init()
	cfg := c.Config

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(c.Logger))
	if cfg.MetricsEnabled {
		r.Use(metrics.Middleware())
	}
	r.Use(cors.New(corsConfig(cfg)))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RealIP())
	r.Use(middleware.ErrorHandler(c.Logger))

	var bypass middleware.AllowFunc = middleware.AllowPaths("/health", "/metrics")
	if cfg.Env == "development" {
		bypass = middleware.AllowAny(bypass, middleware.AllowPrivateIP())
	}

	reg := NewRegistry(r, "")
	reg.Use(middleware.RateLimit(c.Redis, cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIP(), bypass))
	InitModules(reg, c)
	reg.RegisterAll()

	r.NoRoute(middleware.NotFound())
	r.NoMethod(middleware.NotFound())
	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	if origins := cfg.CORSOrigins(); len(origins) > 0 {
		cc.AllowOrigins = origins
	} else {
		cc.AllowAllOrigins = true
	}
	return cc
}

// InitModules builds handlers from the container and adds every module.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	authHandler := handlers.NewAuthHandler(c.Auth, c.Logger)
	userHandler := handlers.NewUserHandler(c.Users, c.Logger)
	bookHandler := handlers.NewBookHandler(c.Lists, c.Catalog, c.Logger)

	protected := modules.Protected{
		Auth:  middleware.Auth(c.Auth),
		Limit: middleware.RateLimit(c.Redis, 300, time.Minute, middleware.KeyByUserID(), nil),
	}

	r.Add(
		modules.NewAuthModule(authHandler, middleware.RateLimit(c.Redis, cfg.SigninRateLimitMax, time.Minute, middleware.KeyByIPAndPath(), nil)),
		modules.NewUserModule(userHandler, protected),
		modules.NewBookModule(bookHandler, protected),
		modules.NewOpsModule(cfg.MetricsEnabled),
	)
}
