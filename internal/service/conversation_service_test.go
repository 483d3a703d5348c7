package service

import (
	"testing"
	"time"

	"agent-studio/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateConversationRequiresAgent(t *testing.T) {
	svc := NewConversationService(newTestDB(t))

	_, err := svc.CreateConversation("missing-agent")
	assert.ErrorIs(t, err, ErrAgentNotFound)
}

func TestGetOrCreateConversationReusesExisting(t *testing.T) {
	db := newTestDB(t)
	svc := NewConversationService(db)
	agent := newTestAgent(t, db)

	conv, err := svc.CreateConversation(agent.ID)
	require.NoError(t, err)

	got, err := svc.GetOrCreateConversation(agent.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)
}

func TestGetOrCreateConversationMakesFreshOnUnknownID(t *testing.T) {
	db := newTestDB(t)
	svc := NewConversationService(db)
	agent := newTestAgent(t, db)

	got, err := svc.GetOrCreateConversation(agent.ID, "no-such-conversation")
	require.NoError(t, err)
	assert.NotEqual(t, "no-such-conversation", got.ID)
	assert.Equal(t, agent.ID, got.AgentID)
}

func TestGetOrCreateConversationRejectsForeignConversation(t *testing.T) {
	db := newTestDB(t)
	svc := NewConversationService(db)
	agentA := newTestAgent(t, db)
	agentB := newTestAgent(t, db)

	convA, err := svc.CreateConversation(agentA.ID)
	require.NoError(t, err)

	// A conversation owned by another agent is never reused
	got, err := svc.GetOrCreateConversation(agentB.ID, convA.ID)
	require.NoError(t, err)
	assert.NotEqual(t, convA.ID, got.ID)
	assert.Equal(t, agentB.ID, got.AgentID)
}

func TestAddMessageValidatesAndBumpsConversation(t *testing.T) {
	db := newTestDB(t)
	svc := NewConversationService(db)
	agent := newTestAgent(t, db)

	conv, err := svc.CreateConversation(agent.ID)
	require.NoError(t, err)

	_, err = svc.AddMessage(conv.ID, &models.Message{Role: models.RoleUser})
	assert.ErrorIs(t, err, ErrMessageFieldsRequired)

	_, err = svc.AddMessage("missing-conv", &models.Message{Role: models.RoleUser, Content: "hi"})
	assert.ErrorIs(t, err, ErrConversationNotFound)

	msg, err := svc.AddMessage(conv.ID, &models.Message{Role: models.RoleUser, Content: "hi"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestMessagesOrderedOldestFirst(t *testing.T) {
	db := newTestDB(t)
	svc := NewConversationService(db)
	agent := newTestAgent(t, db)

	conv, err := svc.CreateConversation(agent.ID)
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour)
	for i, content := range []string{"first", "second", "third"} {
		_, err := svc.AddMessage(conv.ID, &models.Message{
			Role:      models.RoleUser,
			Content:   content,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	messages, err := svc.Messages(conv.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "third", messages[2].Content)
}

func TestListConversationsIncludesLastMessageAndCount(t *testing.T) {
	db := newTestDB(t)
	svc := NewConversationService(db)
	agent := newTestAgent(t, db)

	conv, err := svc.CreateConversation(agent.ID)
	require.NoError(t, err)
	_, err = svc.AddMessage(conv.ID, &models.Message{Role: models.RoleUser, Content: "hello"})
	require.NoError(t, err)
	_, err = svc.AddMessage(conv.ID, &models.Message{Role: models.RoleAssistant, Content: "hi there"})
	require.NoError(t, err)

	list, err := svc.ListConversations(agent.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	summary := list[0]
	assert.Equal(t, agent.ID, summary.Agent.ID)
	assert.Equal(t, int64(2), summary.MessageCount)
	require.NotNil(t, summary.LastMessage)
	assert.Equal(t, "hi there", summary.LastMessage.Content)
}

func TestListConversationsFiltersByAgent(t *testing.T) {
	db := newTestDB(t)
	svc := NewConversationService(db)
	agentA := newTestAgent(t, db)
	agentB := newTestAgent(t, db)

	_, err := svc.CreateConversation(agentA.ID)
	require.NoError(t, err)
	_, err = svc.CreateConversation(agentB.ID)
	require.NoError(t, err)

	all, err := svc.ListConversations("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyA, err := svc.ListConversations(agentA.ID)
	require.NoError(t, err)
	require.Len(t, onlyA, 1)
	assert.Equal(t, agentA.ID, onlyA[0].AgentID)
}

func TestDeleteConversationCascadesMessages(t *testing.T) {
	db := newTestDB(t)
	svc := NewConversationService(db)
	agent := newTestAgent(t, db)

	conv, err := svc.CreateConversation(agent.ID)
	require.NoError(t, err)
	_, err = svc.AddMessage(conv.ID, &models.Message{Role: models.RoleUser, Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(conv.ID))

	var msgCount int64
	require.NoError(t, db.Model(&models.Message{}).Count(&msgCount).Error)
	assert.Zero(t, msgCount)

	assert.ErrorIs(t, svc.DeleteConversation(conv.ID), ErrConversationNotFound)
}
