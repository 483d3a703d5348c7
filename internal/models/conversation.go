package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message roles. Exactly two values exist.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Conversation is an ordered, persisted sequence of messages tied to one agent.
type Conversation struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	AgentID   string    `json:"agentId" gorm:"size:36;index;not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Messages  []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate is a GORM hook that assigns a UUID primary key
func (c *Conversation) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// Message is a single turn inside a conversation. Rows are written once
// and never mutated; ordering is by ascending timestamp.
type Message struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36"`
	ConversationID string    `json:"conversationId" gorm:"size:36;index;not null"`
	Role           string    `json:"role" gorm:"not null"`
	Content        string    `json:"content" gorm:"type:text"`
	FileURL        string    `json:"fileUrl,omitempty"`
	FileName       string    `json:"fileName,omitempty"`
	Timestamp      time.Time `json:"timestamp" gorm:"index"`
	CreatedAt      time.Time `json:"createdAt"`
}

// BeforeCreate is a GORM hook that assigns a UUID primary key and a timestamp
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return nil
}

// CreateConversationRequest is the request structure for creating a conversation
type CreateConversationRequest struct {
	AgentID string `json:"agentId"`
}

// CreateMessageRequest is the request structure for appending a message
type CreateMessageRequest struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp"`
}

// ConversationSummary is the listing shape for conversations: the owning
// agent, the most recent message and a message count.
type ConversationSummary struct {
	ID           string        `json:"id"`
	AgentID      string        `json:"agentId"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	Agent        AgentRef      `json:"agent"`
	LastMessage  *Message      `json:"lastMessage,omitempty"`
	MessageCount int64         `json:"messageCount"`
}

// AgentRef is the compact agent shape embedded in conversation payloads
type AgentRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ConversationDetail is a conversation with its agent and full message list
type ConversationDetail struct {
	ID        string    `json:"id"`
	AgentID   string    `json:"agentId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Agent     AgentRef  `json:"agent"`
	Messages  []Message `json:"messages"`
}
