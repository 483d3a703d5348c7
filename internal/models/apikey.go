package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKey is an issued programmatic-access key. Only a bcrypt hash is
// stored; the plaintext is returned exactly once, at creation.
type APIKey struct {
	ID        string     `json:"id" gorm:"primaryKey;size:36"`
	KeyHash   string     `json:"-" gorm:"not null"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// BeforeCreate is a GORM hook that assigns a UUID primary key
func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.New().String()
	}
	return nil
}

// Expired reports whether the key is past its expiry, if one is set
func (k *APIKey) Expired() bool {
	return k.ExpiresAt != nil && time.Now().After(*k.ExpiresAt)
}

// CreateAPIKeyRequest is the request structure for issuing a key
type CreateAPIKeyRequest struct {
	Name      string     `json:"name"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// APIKeyResponse is returned from creation and includes the plaintext key
type APIKeyResponse struct {
	ID        string     `json:"id"`
	Key       string     `json:"key"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}
