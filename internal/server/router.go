package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/promptvault-api/internal/constants"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/handlers"
	"github.com/yukikurage/promptvault-api/internal/middleware"
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/repository"
	"github.com/yukikurage/promptvault-api/internal/services"
)

// Options carries everything the router needs from the outside world.
type Options struct {
	DB             *gorm.DB
	Redis          *redis.Client
	SessionStore   sessions.Store
	SessionName    string
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sessionName := opts.SessionName
	if sessionName == "" {
		sessionName = constants.SessionCookieName
	}

	// Repositories
	userRepo := repository.NewUserRepository(opts.DB)
	projectRepo := repository.NewProjectRepository(opts.DB)
	promptRepo := repository.NewPromptRepository(opts.DB)
	apiKeyRepo := repository.NewAPIKeyRepository(opts.DB)

	// Services
	authService := services.NewAuthService(userRepo, log)
	projectService := services.NewProjectService(projectRepo, userRepo, log)
	promptService := services.NewPromptService(promptRepo, projectService, log)
	apiKeyService := services.NewAPIKeyService(apiKeyRepo, log)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	memberHandler := handlers.NewMemberHandler(projectService)
	promptHandler := handlers.NewPromptHandler(promptService)
	apiKeyHandler := handlers.NewAPIKeyHandler(apiKeyService)
	healthHandler := handlers.NewHealthHandler(opts.DB, opts.Redis)

	authenticator := middleware.NewAuthenticator(authService, apiKeyService, log)
	requireSession := authenticator.RequireSession()

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Metrics())
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Error("panic recovered", zap.Any("panic", recovered), zap.String("path", c.Request.URL.Path))
		apierrors.InternalError(c, "")
	}))
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", constants.APIKeyHeader, constants.RequestIDHeader},
			ExposeHeaders:    []string{constants.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(sessions.Sessions(sessionName, opts.SessionStore))

	r.GET("/healthz", healthHandler.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireSession, authHandler.GetCurrentUser)
		}

		// Project routes (session)
		projects := api.Group("/projects")
		projects.Use(requireSession)
		{
			viewer := middleware.RequireProjectRole(projectService, models.RoleViewer)
			editor := middleware.RequireProjectRole(projectService, models.RoleEditor)
			admin := middleware.RequireProjectRole(projectService, models.RoleAdmin)

			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", viewer, projectHandler.GetProject)
			projects.PATCH("/:id", admin, projectHandler.UpdateProject)
			projects.DELETE("/:id", admin, projectHandler.DeleteProject)

			projects.GET("/:id/prompts", viewer, promptHandler.ListPrompts)
			projects.POST("/:id/prompts", editor, promptHandler.CreatePrompt)
			projects.PATCH("/:id/prompts/:promptId", editor, promptHandler.UpdatePrompt)

			projects.GET("/:id/members", viewer, memberHandler.ListMembers)
			projects.POST("/:id/members", admin, memberHandler.InviteMember)
			projects.PATCH("/:id/members/:userId", admin, memberHandler.UpdateMemberRole)
			projects.DELETE("/:id/members/:userId", admin, memberHandler.RemoveMember)
		}

		// Prompt routes addressed by slug; reads and writes also accept an API key
		prompts := api.Group("/prompts")
		{
			sessionOrKey := authenticator.RequireSessionOrAPIKey()

			prompts.GET("/:slug", sessionOrKey, promptHandler.GetVersion)
			prompts.POST("/:slug", sessionOrKey, promptHandler.CreateVersion)
			prompts.GET("/:slug/versions", requireSession, promptHandler.ListVersions)
		}

		// API key routes (session)
		apiKeys := api.Group("/api-keys")
		apiKeys.Use(requireSession)
		{
			apiKeys.GET("", apiKeyHandler.ListAPIKeys)
			apiKeys.POST("", apiKeyHandler.CreateAPIKey)
			apiKeys.DELETE("/:id", apiKeyHandler.DeleteAPIKey)
		}
	}

	return r
}
