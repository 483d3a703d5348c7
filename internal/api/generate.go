package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"agent-studio/backend/ai"
	"agent-studio/backend/internal/service"
	"agent-studio/backend/pkg/logger"
	"agent-studio/backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// GenerateHandler drives one chat turn end to end: lookup, validation,
// prompt assembly, the provider round trip and delivery as JSON or SSE.
type GenerateHandler struct {
	generation *service.GenerationService
	metrics    *metrics.Metrics
	logger     *logger.Logger
}

// NewGenerateHandler creates a new generation handler
func NewGenerateHandler(generation *service.GenerationService, m *metrics.Metrics, logger *logger.Logger) *GenerateHandler {
	return &GenerateHandler{generation: generation, metrics: m, logger: logger}
}

type generateRequest struct {
	Prompt         string    `json:"prompt"`
	Stream         bool      `json:"stream"`
	History        []ai.Turn `json:"history"`
	FileURL        string    `json:"fileUrl"`
	FileName       string    `json:"fileName"`
	ConversationID string    `json:"conversationId"`
}

// Generate handles POST /api/agents/:id/generate
func (h *GenerateHandler) Generate(c *gin.Context) {
	agent, err := h.generation.Agent(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
			return
		}
		h.logger.LogError(err, "Failed to fetch agent", "agent_id", c.Param("id"))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate content"})
		return
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	// Attachments must be absolute http(s) URLs; reject before anything
	// is persisted or sent upstream. A relative or unparseable URL is a
	// format problem; a parseable one with the wrong scheme is a protocol
	// problem, even when the rest of it is broken too.
	if req.FileURL != "" {
		parsed, err := url.Parse(req.FileURL)
		if err != nil || parsed.Scheme == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file URL format"})
			return
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file URL protocol"})
			return
		}
		if parsed.Host == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file URL format"})
			return
		}
	}

	turn, err := h.generation.Prepare(agent, service.GenerateInput{
		Prompt:         req.Prompt,
		History:        req.History,
		FileURL:        req.FileURL,
		FileName:       req.FileName,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		h.logger.LogError(err, "Failed to prepare generation", "agent_id", agent.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate content"})
		return
	}

	if req.Stream {
		h.streamResponse(c, turn)
		return
	}

	start := time.Now()
	text, err := h.generation.Generate(c.Request.Context(), turn)
	if h.metrics != nil {
		h.metrics.ObserveGeneration("chat", err, time.Since(start))
	}
	if err != nil {
		h.logger.LogError(err, "Failed to generate content", "agent_id", agent.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate content"})
		return
	}

	var conversationID any
	if turn.Conversation != nil {
		conversationID = turn.Conversation.ID
	}

	now := time.Now().UnixMilli()
	c.JSON(http.StatusOK, gin.H{
		"id":             fmt.Sprintf("gen_%d", now),
		"object":         "generation",
		"created":        now,
		"model":          h.generation.Model(),
		"content":        text,
		"conversationId": conversationID,
	})
}

// streamResponse delivers the generation as server-sent events: one
// data event per fragment, a literal [DONE] sentinel on success, and a
// single error event on any mid-stream failure.
func (h *GenerateHandler) streamResponse(c *gin.Context, turn *service.TurnContext) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	start := time.Now()
	result, err := h.generation.Stream(c.Request.Context(), turn)
	if err != nil {
		if h.metrics != nil {
			h.metrics.ObserveGeneration("stream", err, time.Since(start))
		}
		h.logger.LogError(err, "Failed to start stream", "agent_id", turn.Agent.ID)
		h.writeStreamError(c)
		return
	}

	switch res := result.(type) {
	case ai.Complete:
		// Attachment turns cannot stream; deliver as exactly one fragment
		h.writeContent(c, res.Text)
		h.writeDone(c)
	case ai.Chunks:
		for fragment, err := range res.Seq {
			if err != nil {
				if h.metrics != nil {
					h.metrics.ObserveGeneration("stream", err, time.Since(start))
				}
				h.logger.LogError(err, "Stream failed", "agent_id", turn.Agent.ID)
				h.writeStreamError(c)
				return
			}
			// Every fragment is forwarded verbatim, empty ones included
			h.writeContent(c, fragment)
		}
		h.writeDone(c)
	}

	if h.metrics != nil {
		h.metrics.ObserveGeneration("stream", nil, time.Since(start))
	}
}

func (h *GenerateHandler) writeContent(c *gin.Context, text string) {
	payload, _ := json.Marshal(gin.H{"content": text})
	fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
	c.Writer.Flush()
}

func (h *GenerateHandler) writeDone(c *gin.Context) {
	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	c.Writer.Flush()
}

func (h *GenerateHandler) writeStreamError(c *gin.Context) {
	payload, _ := json.Marshal(gin.H{"error": "Failed to generate content"})
	fmt.Fprintf(c.Writer, "data: %s\n\n", payload)
	c.Writer.Flush()
}
