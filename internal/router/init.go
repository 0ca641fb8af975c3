package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	app "github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/internal/container"
	handlers "github.com/oksasatya/devconnector/internal/interface/http"
	"github.com/oksasatya/devconnector/internal/interface/middleware"
	"github.com/oksasatya/devconnector/internal/router/modules"
	"github.com/oksasatya/devconnector/pkg/validation"
)

// InitModules builds services and handlers from the container and registers
// every feature module. Call it once during startup.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config

	authSvc := app.NewAuthService(c.Users, c.JWT, c.Mail(), c.Logger, cfg.AppName)
	profileSvc := app.NewProfileService(c.Profiles, c.Users, c.ProfileIndex(), c.Mail(), c.Logger, cfg.AppName)
	postSvc := app.NewPostService(c.Posts, c.Users, c.Logger)
	githubSvc := app.NewGitHubService(cfg.GitHubAPIURL, cfg.GitHubToken, c.Redis, cfg.GitHubCacheTTL, c.Logger)
	avatarSvc := app.NewAvatarService(c.Users, c.AvatarStore, c.Logger)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(authSvc, c.Logger), c.JWT))
	r.Add(modules.NewUserModule(handlers.NewAuthHandler(authSvc, c.Logger), handlers.NewUserHandler(avatarSvc, c.Logger), c.JWT))
	r.Add(modules.NewProfileModule(handlers.NewProfileHandler(profileSvc, githubSvc, c.Logger), c.JWT))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(postSvc, c.Logger), c.JWT))
	if cfg.MetricsEnabled {
		r.Add(modules.NewMetricsModule())
	}
}

// NewEngine returns the gin engine with global middleware and all modules registered.
func NewEngine(c *container.Container) *gin.Engine {
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     c.Config.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.TokenHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if c.Config.HTTPLogEnabled {
		r.Use(middleware.AccessLog(c.Logger))
	}
	if c.Config.MetricsEnabled {
		r.Use(middleware.Metrics())
	}

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}
