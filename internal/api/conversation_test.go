package api

import (
	"net/http"
	"testing"

	"agent-studio/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *testServer) createConversation(t *testing.T, agentID string) models.Conversation {
	t.Helper()

	w := s.do(t, http.MethodPost, "/api/conversations", map[string]any{"agentId": agentID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var conv models.Conversation
	decode(t, w, &conv)
	return conv
}

func TestCreateConversationValidation(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/conversations", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodPost, "/api/conversations", map[string]any{"agentId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConversationMessageFlow(t *testing.T) {
	srv := newTestServer(t)
	agent := srv.createAgent(t, nil)
	conv := srv.createConversation(t, agent.ID)

	w := srv.do(t, http.MethodPost, "/api/conversations/"+conv.ID+"/messages", map[string]any{
		"role":    "user",
		"content": "hello",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = srv.do(t, http.MethodPost, "/api/conversations/"+conv.ID+"/messages", map[string]any{
		"role": "user",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = srv.do(t, http.MethodGet, "/api/conversations/"+conv.ID+"/messages", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var messages []models.Message
	decode(t, w, &messages)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Content)
}

func TestGetConversationDetailIncludesAgent(t *testing.T) {
	srv := newTestServer(t)
	agent := srv.createAgent(t, nil)
	conv := srv.createConversation(t, agent.ID)

	w := srv.do(t, http.MethodGet, "/api/conversations/"+conv.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var detail models.ConversationDetail
	decode(t, w, &detail)
	assert.Equal(t, conv.ID, detail.ID)
	assert.Equal(t, agent.ID, detail.Agent.ID)
	assert.NotNil(t, detail.Messages)
}

func TestListConversationsFilteredByAgent(t *testing.T) {
	srv := newTestServer(t)
	agentA := srv.createAgent(t, nil)
	agentB := srv.createAgent(t, map[string]any{
		"name":              "Other",
		"systemInstruction": "Other instruction.",
	})
	srv.createConversation(t, agentA.ID)
	srv.createConversation(t, agentB.ID)

	w := srv.do(t, http.MethodGet, "/api/conversations?agentId="+agentA.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.ConversationSummary
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, agentA.ID, list[0].AgentID)
}

func TestDeleteConversationStatuses(t *testing.T) {
	srv := newTestServer(t)
	agent := srv.createAgent(t, nil)
	conv := srv.createConversation(t, agent.ID)

	w := srv.do(t, http.MethodDelete, "/api/conversations/"+conv.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodDelete, "/api/conversations/"+conv.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIKeyEndpoints(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/keys", map[string]any{"name": "ci"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.APIKeyResponse
	decode(t, w, &created)
	assert.Contains(t, created.Key, "sk_")

	w = srv.do(t, http.MethodGet, "/api/keys", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// The listing body must never contain key material, plaintext or hash
	assert.NotContains(t, w.Body.String(), created.Key)
	assert.NotContains(t, w.Body.String(), "keyHash")
}
