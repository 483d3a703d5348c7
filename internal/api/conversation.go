package api

import (
	"errors"
	"net/http"

	"agent-studio/backend/internal/models"
	"agent-studio/backend/internal/service"
	"agent-studio/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ConversationHandler handles conversation and message endpoints
type ConversationHandler struct {
	service *service.ConversationService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(service *service.ConversationService, logger *logger.Logger) *ConversationHandler {
	return &ConversationHandler{service: service, logger: logger}
}

// CreateConversation handles POST /api/conversations
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req models.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}
	if req.AgentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Agent ID is required"})
		return
	}

	conversation, err := h.service.CreateConversation(req.AgentID)
	if err != nil {
		if errors.Is(err, service.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		h.logger.LogError(err, "Failed to create conversation", "agent_id", req.AgentID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create conversation"})
		return
	}

	c.JSON(http.StatusCreated, conversation)
}

// ListConversations handles GET /api/conversations[?agentId=]
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	conversations, err := h.service.ListConversations(c.Query("agentId"))
	if err != nil {
		h.logger.LogError(err, "Failed to list conversations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversations"})
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// GetConversation handles GET /api/conversations/:id
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	conversation, err := h.service.GetConversation(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		h.logger.LogError(err, "Failed to fetch conversation", "conversation_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch conversation"})
		return
	}

	c.JSON(http.StatusOK, conversation)
}

// DeleteConversation handles DELETE /api/conversations/:id
func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	if err := h.service.DeleteConversation(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrConversationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
			return
		}
		h.logger.LogError(err, "Failed to delete conversation", "conversation_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CreateMessage handles POST /api/conversations/:id/messages
func (h *ConversationHandler) CreateMessage(c *gin.Context) {
	var req models.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	msg := &models.Message{
		Role:    req.Role,
		Content: req.Content,
	}
	if req.Timestamp != nil {
		msg.Timestamp = *req.Timestamp
	}

	created, err := h.service.AddMessage(c.Param("id"), msg)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMessageFieldsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role and content are required"})
		case errors.Is(err, service.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Conversation not found"})
		default:
			h.logger.LogError(err, "Failed to add message", "conversation_id", c.Param("id"))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add message"})
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListMessages handles GET /api/conversations/:id/messages
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	messages, err := h.service.Messages(c.Param("id"))
	if err != nil {
		h.logger.LogError(err, "Failed to fetch messages", "conversation_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	c.JSON(http.StatusOK, messages)
}
