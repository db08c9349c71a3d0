package dto

import (
	"time"

	"github.com/yukikurage/promptvault-api/internal/constants"
	"github.com/yukikurage/promptvault-api/internal/models"
)

// CreateAPIKeyResponse is returned once, right after generation. Key is the plaintext secret.
type CreateAPIKeyResponse struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Key         string    `json:"key"`
	Prefix      string    `json:"prefix"`
	CreatedAt   time.Time `json:"created_at"`
}

// APIKeyDTO is the listing representation; it never carries the secret or its hash.
type APIKeyDTO struct {
	ID          uint64     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	MaskedKey   string     `json:"masked_key"`
	Prefix      string     `json:"prefix"`
	IsActive    bool       `json:"is_active"`
	LastUsedAt  *time.Time `json:"last_used_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToCreateAPIKeyResponse pairs a stored key with its one-time plaintext
func ToCreateAPIKeyResponse(key models.APIKey, plaintext string) CreateAPIKeyResponse {
	return CreateAPIKeyResponse{
		ID:          key.ID,
		Name:        key.Name,
		Description: key.Description,
		Key:         plaintext,
		Prefix:      key.Prefix,
		CreatedAt:   key.CreatedAt,
	}
}

// ToAPIKeyDTO converts a stored key to its masked form
func ToAPIKeyDTO(key models.APIKey) APIKeyDTO {
	return APIKeyDTO{
		ID:          key.ID,
		Name:        key.Name,
		Description: key.Description,
		MaskedKey:   key.Prefix + constants.APIKeyMask,
		Prefix:      key.Prefix,
		IsActive:    key.IsActive,
		LastUsedAt:  key.LastUsedAt,
		CreatedAt:   key.CreatedAt,
	}
}

// ToAPIKeyDTOs converts a slice of stored keys
func ToAPIKeyDTOs(keys []models.APIKey) []APIKeyDTO {
	items := make([]APIKeyDTO, len(keys))
	for i, key := range keys {
		items[i] = ToAPIKeyDTO(key)
	}
	return items
}
