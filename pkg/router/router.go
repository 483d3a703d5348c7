package router

import (
	"net/http"
	"time"

	"agent-studio/backend/internal/api"
	"agent-studio/backend/pkg/config"
	"agent-studio/backend/pkg/di"
	"agent-studio/backend/pkg/errors"
	"agent-studio/backend/pkg/logger"
	"agent-studio/backend/pkg/middleware"
	"agent-studio/backend/pkg/validator"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Router is the main router for the application
type Router struct {
	Engine    *gin.Engine
	Container *di.Container
	Logger    *logger.Logger
	Config    *config.Config
}

// New creates a new router with the given container
func New(container *di.Container) *Router {
	// Use the container's logger
	logger.SetGlobal(container.Logger)

	// Load configuration
	cfg := config.Get()

	// Configure Gin mode based on environment
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Gin router
	engine := gin.New()
	engine.SetTrustedProxies(cfg.Security.TrustedProxies)

	// Use the logger middleware first to capture all requests
	engine.Use(logger.Middleware(container.Logger))

	// Add custom error handler middleware
	engine.Use(errors.ErrorHandler())

	// Add custom recovery middleware with structured logging instead of default
	engine.Use(errors.RecoveryWithLogger())

	// Tag every request with an ID for correlation
	engine.Use(middleware.RequestIDMiddleware())

	// Prometheus instrumentation
	engine.Use(container.Metrics.Middleware())

	// Rate limiting is opt-in; RATE_LIMIT=0 leaves it off
	if cfg.Security.RateLimit > 0 {
		rateLimiter := middleware.NewRateLimiter(container.Logger, middleware.RateLimiterOptions{
			Limit:          rate.Limit(cfg.Security.RateLimit),
			Burst:          cfg.Security.RateLimitBurst,
			ExpiryDuration: time.Hour,
		})
		engine.Use(rateLimiter.Middleware())
	}

	engine.Use(corsMiddleware())

	// Session gate for browser navigations; API routes pass through
	gate := middleware.NewAuthGate(container.SessionService, cfg.Auth.CookieName)
	engine.Use(gate.Middleware())

	return &Router{
		Engine:    engine,
		Container: container,
		Logger:    container.Logger,
		Config:    cfg,
	}
}

// AddOpenAPIValidation attaches request validation against an OpenAPI schema.
// A missing schema path is not an error; validation is simply skipped.
func (r *Router) AddOpenAPIValidation(schemaPath string) error {
	if schemaPath == "" {
		return nil
	}

	v, err := validator.NewOpenAPIValidator(schemaPath)
	if err != nil {
		return err
	}

	r.Engine.Use(v.Middleware())
	return nil
}

// SetupRoutes registers all application routes
func (r *Router) SetupRoutes() {
	authHandler := api.NewAuthHandler(
		r.Container.SessionService,
		r.Config.Auth.SecretKey,
		r.Config.Auth.CookieName,
		r.Config.Auth.CookieSecure,
		r.Logger,
	)
	agentHandler := api.NewAgentHandler(r.Container.AgentService, r.Logger)
	conversationHandler := api.NewConversationHandler(r.Container.ConversationService, r.Logger)
	apiKeyHandler := api.NewAPIKeyHandler(r.Container.APIKeyService, r.Logger)
	generateHandler := api.NewGenerateHandler(r.Container.GenerationService, r.Container.Metrics, r.Logger)

	// Health check endpoint
	r.Engine.GET("/health", r.healthCheckHandler())

	// Prometheus scrape endpoint
	r.Engine.GET("/metrics", r.Container.Metrics.Handler())

	// Browser pages
	r.Engine.GET("/", servePage(indexPage))
	r.Engine.GET("/login", servePage(loginPage))

	apiRoutes := r.Engine.Group("/api")
	{
		apiRoutes.POST("/auth/login", authHandler.Login)

		agentRoutes := apiRoutes.Group("/agents")
		{
			agentRoutes.POST("", agentHandler.CreateAgent)
			agentRoutes.GET("", agentHandler.ListAgents)
			agentRoutes.GET("/:id", agentHandler.GetAgent)
			agentRoutes.PUT("/:id", agentHandler.UpdateAgent)
			agentRoutes.DELETE("/:id", agentHandler.DeleteAgent)
			agentRoutes.POST("/:id/generate", generateHandler.Generate)
		}

		conversationRoutes := apiRoutes.Group("/conversations")
		{
			conversationRoutes.POST("", conversationHandler.CreateConversation)
			conversationRoutes.GET("", conversationHandler.ListConversations)
			conversationRoutes.GET("/:id", conversationHandler.GetConversation)
			conversationRoutes.DELETE("/:id", conversationHandler.DeleteConversation)
			conversationRoutes.POST("/:id/messages", conversationHandler.CreateMessage)
			conversationRoutes.GET("/:id/messages", conversationHandler.ListMessages)
		}

		keyRoutes := apiRoutes.Group("/keys")
		{
			keyRoutes.POST("", apiKeyHandler.CreateKey)
			keyRoutes.GET("", apiKeyHandler.ListKeys)
		}
	}
}

// healthCheckHandler returns a simple health check handler
func (r *Router) healthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"env":    r.Config.Server.Env,
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

func servePage(page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept, Accept-Encoding, Authorization, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
