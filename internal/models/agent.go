package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Agent is a named configuration used to answer prompts: a system
// instruction plus generation parameters. Defaults for omitted optional
// fields are applied by the service at creation time, never by the schema:
// an explicit zero or false must round-trip through the database as-is.
type Agent struct {
	ID                string         `json:"id" gorm:"primaryKey;size:36"`
	Name              string         `json:"name" gorm:"not null"`
	Description       string         `json:"description"`
	SystemInstruction string         `json:"systemInstruction" gorm:"type:text;not null"`
	Temperature       float64        `json:"temperature"`
	MaxTokens         int            `json:"maxTokens"`
	SaveHistory       bool           `json:"saveHistory"`
	APIEnabled        bool           `json:"apiEnabled"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	Conversations     []Conversation `json:"-" gorm:"foreignKey:AgentID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate is a GORM hook that assigns a UUID primary key
func (a *Agent) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// CreateAgentRequest is the request structure for creating an agent.
// Pointer fields distinguish "absent" from zero so defaults apply only
// when the caller omitted the field.
type CreateAgentRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	SystemInstruction string   `json:"systemInstruction"`
	Temperature       *float64 `json:"temperature"`
	MaxTokens         *int     `json:"maxTokens"`
	SaveHistory       *bool    `json:"saveHistory"`
	APIEnabled        *bool    `json:"apiEnabled"`
}

// AgentSummary is the listing shape: identity fields plus how many
// conversations the agent owns.
type AgentSummary struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	CreatedAt         time.Time `json:"createdAt"`
	ConversationCount int64     `json:"conversationCount"`
}
