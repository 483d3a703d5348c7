package service

import (
	"context"

	"agent-studio/backend/ai"
	"agent-studio/backend/internal/models"
	"agent-studio/backend/pkg/logger"
)

// GenerationService orchestrates one chat turn: agent lookup, user-turn
// persistence, history resolution, prompt assembly and the provider call.
type GenerationService struct {
	agents        *AgentService
	conversations *ConversationService
	provider      ai.Provider
	logger        *logger.Logger
}

// NewGenerationService creates a new generation service
func NewGenerationService(
	agents *AgentService,
	conversations *ConversationService,
	provider ai.Provider,
	log *logger.Logger,
) *GenerationService {
	if log == nil {
		log = logger.GetGlobal()
	}
	return &GenerationService{
		agents:        agents,
		conversations: conversations,
		provider:      provider,
		logger:        log,
	}
}

// GenerateInput is one generation request after HTTP validation
type GenerateInput struct {
	Prompt         string
	History        []ai.Turn
	FileURL        string
	FileName       string
	ConversationID string
}

// TurnContext is a prepared generation turn. Conversation is nil when the
// agent does not save history.
type TurnContext struct {
	Agent        *models.Agent
	Conversation *models.Conversation
	Request      ai.Request
}

// Model returns the provider's model name, for response payloads
func (s *GenerationService) Model() string {
	return s.provider.Model()
}

// Agent loads the target agent
func (s *GenerationService) Agent(id string) (*models.Agent, error) {
	return s.agents.GetAgent(id)
}

// Prepare persists the user turn when history saving is enabled (creating
// a conversation if needed), resolves history and assembles the upstream
// request.
func (s *GenerationService) Prepare(agent *models.Agent, input GenerateInput) (*TurnContext, error) {
	var conversation *models.Conversation
	var err error
	if agent.SaveHistory {
		conversation, err = s.conversations.GetOrCreateConversation(agent.ID, input.ConversationID)
		if err != nil {
			return nil, err
		}

		if _, err := s.conversations.AddMessage(conversation.ID, &models.Message{
			Role:     models.RoleUser,
			Content:  input.Prompt,
			FileURL:  input.FileURL,
			FileName: input.FileName,
		}); err != nil {
			return nil, err
		}
	}

	history := s.resolveHistory(input.ConversationID, input.History, agent.SaveHistory)

	return &TurnContext{
		Agent:        agent,
		Conversation: conversation,
		Request: ai.Request{
			System:      agent.SystemInstruction,
			Prompt:      ai.BuildPrompt(input.Prompt, history),
			Temperature: agent.Temperature,
			MaxTokens:   agent.MaxTokens,
			History:     history,
			FileURL:     input.FileURL,
			FileName:    input.FileName,
		},
	}, nil
}

// resolveHistory produces the turn list used as context. Explicit history
// wins; otherwise stored messages are used when a conversation id was
// supplied and the agent saves history. A fetch failure degrades to empty
// history so the turn proceeds without context.
func (s *GenerationService) resolveHistory(conversationID string, explicit []ai.Turn, savesHistory bool) []ai.Turn {
	if len(explicit) > 0 {
		return explicit
	}
	if conversationID == "" || !savesHistory {
		return nil
	}

	messages, err := s.conversations.Messages(conversationID)
	if err != nil {
		s.logger.LogError(err, "Failed to fetch conversation history, continuing without context",
			"conversation_id", conversationID)
		return nil
	}

	history := make([]ai.Turn, 0, len(messages))
	for _, msg := range messages {
		history = append(history, ai.Turn{Role: msg.Role, Content: msg.Content})
	}
	return history
}

// Generate waits for the complete text and persists the assistant turn
// when history saving is enabled.
func (s *GenerationService) Generate(ctx context.Context, turn *TurnContext) (string, error) {
	text, err := s.provider.Generate(ctx, turn.Request)
	if err != nil {
		return "", err
	}

	if turn.Agent.SaveHistory && turn.Conversation != nil {
		if _, err := s.conversations.AddMessage(turn.Conversation.ID, &models.Message{
			Role:    models.RoleAssistant,
			Content: text,
		}); err != nil {
			return "", err
		}
	}

	return text, nil
}

// Stream starts an incremental generation. The assistant turn is not
// persisted on this path.
func (s *GenerationService) Stream(ctx context.Context, turn *TurnContext) (ai.Result, error) {
	return s.provider.Stream(ctx, turn.Request)
}
