package service

import (
	"testing"

	"agent-studio/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }

func TestCreateAgentAppliesDefaults(t *testing.T) {
	svc := NewAgentService(newTestDB(t))

	agent, err := svc.CreateAgent(&models.CreateAgentRequest{
		Name:              "Tutor",
		SystemInstruction: "Teach patiently.",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, 0.7, agent.Temperature)
	assert.Equal(t, 1000, agent.MaxTokens)
	assert.True(t, agent.SaveHistory)
	assert.True(t, agent.APIEnabled)
}

func TestCreateAgentKeepsExplicitZeroValues(t *testing.T) {
	svc := NewAgentService(newTestDB(t))

	// An explicit zero/false is a choice, not an omission
	agent, err := svc.CreateAgent(&models.CreateAgentRequest{
		Name:              "Literal",
		SystemInstruction: "Be deterministic.",
		Temperature:       floatPtr(0),
		SaveHistory:       boolPtr(false),
		APIEnabled:        boolPtr(false),
	})

	require.NoError(t, err)
	assert.Equal(t, 0.0, agent.Temperature)
	assert.False(t, agent.SaveHistory)
	assert.False(t, agent.APIEnabled)
	assert.Equal(t, 1000, agent.MaxTokens)

	// The row itself must hold the explicit values, not schema defaults
	fetched, err := svc.GetAgent(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, fetched.Temperature)
	assert.False(t, fetched.SaveHistory)
	assert.False(t, fetched.APIEnabled)
}

func TestCreateAgentRequiresNameAndInstruction(t *testing.T) {
	svc := NewAgentService(newTestDB(t))

	_, err := svc.CreateAgent(&models.CreateAgentRequest{Name: "No instruction"})
	assert.ErrorIs(t, err, ErrAgentFieldsRequired)

	_, err = svc.CreateAgent(&models.CreateAgentRequest{SystemInstruction: "No name"})
	assert.ErrorIs(t, err, ErrAgentFieldsRequired)
}

func TestGetAgentNotFound(t *testing.T) {
	svc := NewAgentService(newTestDB(t))

	_, err := svc.GetAgent("missing-id")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestUpdateAgentReplacesFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewAgentService(db)
	agent := newTestAgent(t, db)

	updated, err := svc.UpdateAgent(agent.ID, &models.CreateAgentRequest{
		Name:              "Renamed",
		SystemInstruction: "New instruction.",
		Temperature:       floatPtr(0.2),
		MaxTokens:         intPtr(256),
	})

	require.NoError(t, err)
	assert.Equal(t, agent.ID, updated.ID)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "New instruction.", updated.SystemInstruction)
	assert.Equal(t, 0.2, updated.Temperature)
	assert.Equal(t, 256, updated.MaxTokens)

	fetched, err := svc.GetAgent(agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", fetched.Name)
}

func TestListAgentsCountsConversations(t *testing.T) {
	db := newTestDB(t)
	svc := NewAgentService(db)
	conversations := NewConversationService(db)
	agent := newTestAgent(t, db)

	_, err := conversations.CreateConversation(agent.ID)
	require.NoError(t, err)
	_, err = conversations.CreateConversation(agent.ID)
	require.NoError(t, err)

	list, err := svc.ListAgents()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(2), list[0].ConversationCount)
}

func TestDeleteAgentCascades(t *testing.T) {
	db := newTestDB(t)
	svc := NewAgentService(db)
	conversations := NewConversationService(db)
	agent := newTestAgent(t, db)

	conv, err := conversations.CreateConversation(agent.ID)
	require.NoError(t, err)
	_, err = conversations.AddMessage(conv.ID, &models.Message{Role: models.RoleUser, Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAgent(agent.ID))

	var convCount, msgCount int64
	require.NoError(t, db.Model(&models.Conversation{}).Count(&convCount).Error)
	require.NoError(t, db.Model(&models.Message{}).Count(&msgCount).Error)
	assert.Zero(t, convCount)
	assert.Zero(t, msgCount)

	assert.ErrorIs(t, svc.DeleteAgent(agent.ID), ErrAgentNotFound)
}
