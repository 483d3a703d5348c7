package di

import (
	"context"
	"fmt"
	"time"

	"agent-studio/backend/ai"
	"agent-studio/backend/internal/service"
	"agent-studio/backend/pkg/logger"
	"agent-studio/backend/pkg/metrics"
	"agent-studio/backend/pkg/session"

	"gorm.io/gorm"
)

// Container holds all the dependencies for the application
type Container struct {
	DB                  *gorm.DB
	Logger              *logger.Logger
	SessionService      *session.Service
	AgentService        *service.AgentService
	ConversationService *service.ConversationService
	APIKeyService       *service.APIKeyService
	GenerationService   *service.GenerationService
	Provider            ai.Provider
	Metrics             *metrics.Metrics
}

// Config holds the configuration for the container
type Config struct {
	LoggerConfig  logger.Config
	SecretKey     string
	SessionExpiry time.Duration
	Gemini        ai.GeminiConfig
	// Provider overrides the Gemini-backed provider when set, for tests
	Provider ai.Provider
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		LoggerConfig:  logger.DefaultConfig(),
		SecretKey:     "",
		SessionExpiry: 0, // Use default
	}
}

// New creates a new dependency injection container
func New(db *gorm.DB, config *Config) (*Container, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// Initialize the logger
	log := logger.New(config.LoggerConfig)

	// Initialize session service
	sessionService := session.NewService(config.SecretKey, config.SessionExpiry)

	// Initialize core services
	agentService := service.NewAgentService(db)
	conversationService := service.NewConversationService(db)
	apiKeyService := service.NewAPIKeyService(db)

	// Initialize the generation provider. Without an API key the server
	// still boots for local development, backed by the scripted provider.
	provider := config.Provider
	if provider == nil {
		if config.Gemini.APIKey == "" {
			log.Warn("GEMINI_API_KEY is not set, generation will use the mock provider")
			provider = ai.NewMockProvider("")
		} else {
			geminiProvider, err := ai.NewGeminiProvider(context.Background(), config.Gemini)
			if err != nil {
				return nil, fmt.Errorf("failed to create gemini provider: %w", err)
			}
			provider = geminiProvider
		}
	}

	generationService := service.NewGenerationService(agentService, conversationService, provider, log)

	return &Container{
		DB:                  db,
		Logger:              log,
		SessionService:      sessionService,
		AgentService:        agentService,
		ConversationService: conversationService,
		APIKeyService:       apiKeyService,
		GenerationService:   generationService,
		Provider:            provider,
		Metrics:             metrics.New(),
	}, nil
}
