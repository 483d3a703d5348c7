package api

import (
	"net/http"

	"agent-studio/backend/internal/models"
	"agent-studio/backend/internal/service"
	"agent-studio/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// APIKeyHandler handles API key issuance and listing
type APIKeyHandler struct {
	service *service.APIKeyService
	logger  *logger.Logger
}

// NewAPIKeyHandler creates a new API key handler
func NewAPIKeyHandler(service *service.APIKeyService, logger *logger.Logger) *APIKeyHandler {
	return &APIKeyHandler{service: service, logger: logger}
}

// CreateKey handles POST /api/keys. The response is the only place the
// plaintext key ever appears.
func (h *APIKeyHandler) CreateKey(c *gin.Context) {
	var req models.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	key, err := h.service.CreateKey(&req)
	if err != nil {
		h.logger.LogError(err, "Failed to create API key")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create API key"})
		return
	}

	c.JSON(http.StatusCreated, key)
}

// ListKeys handles GET /api/keys
func (h *APIKeyHandler) ListKeys(c *gin.Context) {
	keys, err := h.service.ListKeys()
	if err != nil {
		h.logger.LogError(err, "Failed to list API keys")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch API keys"})
		return
	}

	c.JSON(http.StatusOK, keys)
}
