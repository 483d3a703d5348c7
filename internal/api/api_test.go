package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"agent-studio/backend/ai"
	"agent-studio/backend/internal/models"
	"agent-studio/backend/internal/service"
	"agent-studio/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// testServer bundles an in-memory API surface for handler tests
type testServer struct {
	engine   *gin.Engine
	db       *gorm.DB
	provider *ai.MockProvider
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(
		&models.Agent{},
		&models.Conversation{},
		&models.Message{},
		&models.APIKey{},
	))

	log := logger.NewNop()
	provider := ai.NewMockProvider("")

	agents := service.NewAgentService(db)
	conversations := service.NewConversationService(db)
	apiKeys := service.NewAPIKeyService(db)
	generation := service.NewGenerationService(agents, conversations, provider, log)

	agentHandler := NewAgentHandler(agents, log)
	conversationHandler := NewConversationHandler(conversations, log)
	apiKeyHandler := NewAPIKeyHandler(apiKeys, log)
	generateHandler := NewGenerateHandler(generation, nil, log)

	engine := gin.New()
	api := engine.Group("/api")
	{
		api.POST("/agents", agentHandler.CreateAgent)
		api.GET("/agents", agentHandler.ListAgents)
		api.GET("/agents/:id", agentHandler.GetAgent)
		api.PUT("/agents/:id", agentHandler.UpdateAgent)
		api.DELETE("/agents/:id", agentHandler.DeleteAgent)
		api.POST("/agents/:id/generate", generateHandler.Generate)

		api.POST("/conversations", conversationHandler.CreateConversation)
		api.GET("/conversations", conversationHandler.ListConversations)
		api.GET("/conversations/:id", conversationHandler.GetConversation)
		api.DELETE("/conversations/:id", conversationHandler.DeleteConversation)
		api.POST("/conversations/:id/messages", conversationHandler.CreateMessage)
		api.GET("/conversations/:id/messages", conversationHandler.ListMessages)

		api.POST("/keys", apiKeyHandler.CreateKey)
		api.GET("/keys", apiKeyHandler.ListKeys)
	}

	return &testServer{engine: engine, db: db, provider: provider}
}

// do performs one JSON request against the test server
func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// decode unmarshals a JSON response body into out
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}

// createAgent persists an agent through the API and returns it
func (s *testServer) createAgent(t *testing.T, body map[string]any) models.Agent {
	t.Helper()

	if body == nil {
		body = map[string]any{
			"name":              "Helper",
			"systemInstruction": "You are a helpful assistant.",
		}
	}

	w := s.do(t, http.MethodPost, "/api/agents", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var agent models.Agent
	decode(t, w, &agent)
	return agent
}
