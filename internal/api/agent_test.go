package api

import (
	"net/http"
	"testing"

	"agent-studio/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAgentDefaultsAndEcho(t *testing.T) {
	srv := newTestServer(t)

	agent := srv.createAgent(t, map[string]any{
		"name":              "Tutor",
		"description":       "Explains things",
		"systemInstruction": "Teach patiently.",
	})

	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, "Tutor", agent.Name)
	assert.Equal(t, 0.7, agent.Temperature)
	assert.Equal(t, 1000, agent.MaxTokens)
	assert.True(t, agent.SaveHistory)
}

func TestCreateAgentMissingFields(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodPost, "/api/agents", map[string]any{"name": "No instruction"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "Name and system instruction are required", body["error"])
}

func TestGetAgentNotFoundStatus(t *testing.T) {
	srv := newTestServer(t)

	w := srv.do(t, http.MethodGet, "/api/agents/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAgentsDisablesCaching(t *testing.T) {
	srv := newTestServer(t)
	srv.createAgent(t, nil)

	w := srv.do(t, http.MethodGet, "/api/agents", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Cache-Control"), "no-store")

	var list []models.AgentSummary
	decode(t, w, &list)
	assert.Len(t, list, 1)
}

func TestUpdateAgentRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	agent := srv.createAgent(t, nil)

	w := srv.do(t, http.MethodPut, "/api/agents/"+agent.ID, map[string]any{
		"name":              "Renamed",
		"systemInstruction": "New rules.",
		"temperature":       0.3,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Agent
	decode(t, w, &updated)
	assert.Equal(t, agent.ID, updated.ID)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, 0.3, updated.Temperature)
}

func TestDeleteAgentLifecycle(t *testing.T) {
	srv := newTestServer(t)
	agent := srv.createAgent(t, nil)

	w := srv.do(t, http.MethodDelete, "/api/agents/"+agent.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.do(t, http.MethodDelete, "/api/agents/"+agent.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.do(t, http.MethodGet, "/api/agents/"+agent.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
