package api

import (
	"errors"
	"net/http"

	"agent-studio/backend/internal/models"
	"agent-studio/backend/internal/service"
	"agent-studio/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AgentHandler handles agent CRUD endpoints
type AgentHandler struct {
	service *service.AgentService
	logger  *logger.Logger
}

// NewAgentHandler creates a new agent handler
func NewAgentHandler(service *service.AgentService, logger *logger.Logger) *AgentHandler {
	return &AgentHandler{service: service, logger: logger}
}

// CreateAgent handles POST /api/agents
func (h *AgentHandler) CreateAgent(c *gin.Context) {
	var req models.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	agent, err := h.service.CreateAgent(&req)
	if err != nil {
		if errors.Is(err, service.ErrAgentFieldsRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name and system instruction are required"})
			return
		}
		h.logger.LogError(err, "Failed to create agent")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create agent"})
		return
	}

	c.JSON(http.StatusCreated, agent)
}

// ListAgents handles GET /api/agents
func (h *AgentHandler) ListAgents(c *gin.Context) {
	agents, err := h.service.ListAgents()
	if err != nil {
		h.logger.LogError(err, "Failed to list agents")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agents"})
		return
	}

	c.Header("Cache-Control", "no-store, max-age=0, must-revalidate")
	c.JSON(http.StatusOK, agents)
}

// GetAgent handles GET /api/agents/:id
func (h *AgentHandler) GetAgent(c *gin.Context) {
	agent, err := h.service.GetAgent(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		h.logger.LogError(err, "Failed to fetch agent", "agent_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agent"})
		return
	}

	c.JSON(http.StatusOK, agent)
}

// UpdateAgent handles PUT /api/agents/:id
func (h *AgentHandler) UpdateAgent(c *gin.Context) {
	var req models.CreateAgentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	agent, err := h.service.UpdateAgent(c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAgentFieldsRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name and system instruction are required"})
		case errors.Is(err, service.ErrAgentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		default:
			h.logger.LogError(err, "Failed to update agent", "agent_id", c.Param("id"))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update agent"})
		}
		return
	}

	c.JSON(http.StatusOK, agent)
}

// DeleteAgent handles DELETE /api/agents/:id
func (h *AgentHandler) DeleteAgent(c *gin.Context) {
	if err := h.service.DeleteAgent(c.Param("id")); err != nil {
		if errors.Is(err, service.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		h.logger.LogError(err, "Failed to delete agent", "agent_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete agent"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
