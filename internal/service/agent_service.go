package service

import (
	"errors"

	"agent-studio/backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrAgentNotFound        = errors.New("agent not found")
	ErrAgentFieldsRequired  = errors.New("name and system instruction are required")
	ErrConversationNotFound = errors.New("conversation not found")
)

// AgentService owns agent definitions
type AgentService struct {
	db *gorm.DB
}

// NewAgentService creates a new agent service
func NewAgentService(db *gorm.DB) *AgentService {
	return &AgentService{db: db}
}

// CreateAgent validates the request, applies defaults for omitted optional
// fields and persists the agent.
func (s *AgentService) CreateAgent(req *models.CreateAgentRequest) (*models.Agent, error) {
	if req.Name == "" || req.SystemInstruction == "" {
		return nil, ErrAgentFieldsRequired
	}

	agent := &models.Agent{
		Name:              req.Name,
		Description:       req.Description,
		SystemInstruction: req.SystemInstruction,
		Temperature:       0.7,
		MaxTokens:         1000,
		SaveHistory:       true,
		APIEnabled:        true,
	}
	if req.Temperature != nil {
		agent.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		agent.MaxTokens = *req.MaxTokens
	}
	if req.SaveHistory != nil {
		agent.SaveHistory = *req.SaveHistory
	}
	if req.APIEnabled != nil {
		agent.APIEnabled = *req.APIEnabled
	}

	if err := s.db.Create(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

// GetAgent fetches one agent by id
func (s *AgentService) GetAgent(id string) (*models.Agent, error) {
	var agent models.Agent
	if err := s.db.First(&agent, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgentNotFound
		}
		return nil, err
	}
	return &agent, nil
}

// ListAgents returns all agents, newest first, with conversation counts
func (s *AgentService) ListAgents() ([]models.AgentSummary, error) {
	var agents []models.Agent
	if err := s.db.Order("created_at DESC").Find(&agents).Error; err != nil {
		return nil, err
	}

	summaries := make([]models.AgentSummary, 0, len(agents))
	for _, agent := range agents {
		var count int64
		if err := s.db.Model(&models.Conversation{}).
			Where("agent_id = ?", agent.ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		summaries = append(summaries, models.AgentSummary{
			ID:                agent.ID,
			Name:              agent.Name,
			Description:       agent.Description,
			CreatedAt:         agent.CreatedAt,
			ConversationCount: count,
		})
	}
	return summaries, nil
}

// UpdateAgent replaces an agent's fields in place. The row identity never
// changes; updating with identical values is a no-op apart from updatedAt.
func (s *AgentService) UpdateAgent(id string, req *models.CreateAgentRequest) (*models.Agent, error) {
	if req.Name == "" || req.SystemInstruction == "" {
		return nil, ErrAgentFieldsRequired
	}

	agent, err := s.GetAgent(id)
	if err != nil {
		return nil, err
	}

	agent.Name = req.Name
	agent.Description = req.Description
	agent.SystemInstruction = req.SystemInstruction
	if req.Temperature != nil {
		agent.Temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		agent.MaxTokens = *req.MaxTokens
	}
	if req.SaveHistory != nil {
		agent.SaveHistory = *req.SaveHistory
	}
	if req.APIEnabled != nil {
		agent.APIEnabled = *req.APIEnabled
	}

	if err := s.db.Save(agent).Error; err != nil {
		return nil, err
	}
	return agent, nil
}

// DeleteAgent removes an agent; conversations and messages cascade
func (s *AgentService) DeleteAgent(id string) error {
	result := s.db.Delete(&models.Agent{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAgentNotFound
	}
	return nil
}
