package service

import (
	"errors"
	"time"

	"agent-studio/backend/internal/models"

	"gorm.io/gorm"
)

var ErrMessageFieldsRequired = errors.New("role and content are required")

// ConversationService owns conversations and their messages
type ConversationService struct {
	db *gorm.DB
}

// NewConversationService creates a new conversation service
func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{db: db}
}

// CreateConversation creates an empty conversation for an agent
func (s *ConversationService) CreateConversation(agentID string) (*models.Conversation, error) {
	var agent models.Agent
	if err := s.db.First(&agent, "id = ?", agentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}

	conversation := &models.Conversation{AgentID: agentID}
	if err := s.db.Create(conversation).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}

// GetOrCreateConversation reuses the supplied conversation when it exists
// and belongs to the agent; in every other case it creates a fresh one.
// Concurrent calls without an id each create their own conversation
// (at-least-one semantics, no deduplication).
func (s *ConversationService) GetOrCreateConversation(agentID, conversationID string) (*models.Conversation, error) {
	if conversationID != "" {
		var existing models.Conversation
		err := s.db.First(&existing, "id = ?", conversationID).Error
		if err == nil && existing.AgentID == agentID {
			return &existing, nil
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	conversation := &models.Conversation{AgentID: agentID}
	if err := s.db.Create(conversation).Error; err != nil {
		return nil, err
	}
	return conversation, nil
}

// ListConversations returns conversation summaries, most recently updated
// first, optionally filtered to one agent.
func (s *ConversationService) ListConversations(agentID string) ([]models.ConversationSummary, error) {
	query := s.db.Model(&models.Conversation{}).Order("updated_at DESC")
	if agentID != "" {
		query = query.Where("agent_id = ?", agentID)
	}

	var conversations []models.Conversation
	if err := query.Find(&conversations).Error; err != nil {
		return nil, err
	}

	summaries := make([]models.ConversationSummary, 0, len(conversations))
	for _, conv := range conversations {
		summary := models.ConversationSummary{
			ID:        conv.ID,
			AgentID:   conv.AgentID,
			CreatedAt: conv.CreatedAt,
			UpdatedAt: conv.UpdatedAt,
		}

		var agent models.Agent
		if err := s.db.Select("id", "name").First(&agent, "id = ?", conv.AgentID).Error; err == nil {
			summary.Agent = models.AgentRef{ID: agent.ID, Name: agent.Name}
		}

		var last models.Message
		err := s.db.Where("conversation_id = ?", conv.ID).
			Order("timestamp DESC").
			First(&last).Error
		if err == nil {
			summary.LastMessage = &last
		}

		if err := s.db.Model(&models.Message{}).
			Where("conversation_id = ?", conv.ID).
			Count(&summary.MessageCount).Error; err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// GetConversation fetches one conversation with its agent and ordered messages
func (s *ConversationService) GetConversation(id string) (*models.ConversationDetail, error) {
	var conversation models.Conversation
	if err := s.db.First(&conversation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	detail := &models.ConversationDetail{
		ID:        conversation.ID,
		AgentID:   conversation.AgentID,
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: conversation.UpdatedAt,
		Messages:  []models.Message{},
	}

	var agent models.Agent
	if err := s.db.Select("id", "name", "description").
		First(&agent, "id = ?", conversation.AgentID).Error; err == nil {
		detail.Agent = models.AgentRef{ID: agent.ID, Name: agent.Name, Description: agent.Description}
	}

	if err := s.db.Where("conversation_id = ?", id).
		Order("timestamp ASC").
		Find(&detail.Messages).Error; err != nil {
		return nil, err
	}

	return detail, nil
}

// DeleteConversation removes a conversation; messages cascade
func (s *ConversationService) DeleteConversation(id string) error {
	result := s.db.Delete(&models.Conversation{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// AddMessage appends one turn and bumps the conversation's updatedAt
func (s *ConversationService) AddMessage(conversationID string, msg *models.Message) (*models.Message, error) {
	if msg.Role == "" || msg.Content == "" {
		return nil, ErrMessageFieldsRequired
	}

	var conversation models.Conversation
	if err := s.db.First(&conversation, "id = ?", conversationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	msg.ConversationID = conversationID
	if err := s.db.Create(msg).Error; err != nil {
		return nil, err
	}

	if err := s.db.Model(&conversation).
		Update("updated_at", time.Now()).Error; err != nil {
		return nil, err
	}

	return msg, nil
}

// Messages returns all messages of a conversation, oldest first
func (s *ConversationService) Messages(conversationID string) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.db.Where("conversation_id = ?", conversationID).
		Order("timestamp ASC").
		Find(&messages).Error
	return messages, err
}
