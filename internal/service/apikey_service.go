package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"agent-studio/backend/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// APIKeyService issues and lists programmatic-access keys. Keys are
// bcrypt-hashed at rest; the plaintext exists only in the creation response.
type APIKeyService struct {
	db *gorm.DB
}

// NewAPIKeyService creates a new API key service
func NewAPIKeyService(db *gorm.DB) *APIKeyService {
	return &APIKeyService{db: db}
}

// CreateKey generates a fresh key and stores its hash
func (s *APIKeyService) CreateKey(req *models.CreateAPIKeyRequest) (*models.APIKeyResponse, error) {
	key, err := generateKey()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash API key: %w", err)
	}

	record := &models.APIKey{
		KeyHash:   string(hash),
		Name:      req.Name,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}

	return &models.APIKeyResponse{
		ID:        record.ID,
		Key:       key,
		Name:      record.Name,
		CreatedAt: record.CreatedAt,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// ListKeys returns all keys, newest first, without any key material
func (s *APIKeyService) ListKeys() ([]models.APIKey, error) {
	keys := []models.APIKey{}
	err := s.db.Order("created_at DESC").Find(&keys).Error
	return keys, err
}

// VerifyKey reports whether the plaintext matches any stored, unexpired key
func (s *APIKeyService) VerifyKey(key string) (bool, error) {
	var keys []models.APIKey
	if err := s.db.Find(&keys).Error; err != nil {
		return false, err
	}

	for _, record := range keys {
		if record.Expired() {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(record.KeyHash), []byte(key)) == nil {
			return true, nil
		}
	}
	return false, nil
}

// generateKey produces a "sk_" prefixed key with 24 random bytes hex-encoded
func generateKey() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate key material: %w", err)
	}
	return "sk_" + hex.EncodeToString(buf), nil
}
