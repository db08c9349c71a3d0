package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/metrics"
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/repository"
	"github.com/yukikurage/promptvault-api/internal/utils"
)

var (
	ErrAPIKeyNameRequired = apierrors.Kind(apierrors.ErrInvalidInput, "api key name is required")
	ErrAPIKeyNotFound     = apierrors.Kind(apierrors.ErrNotFound, "api key not found")
	ErrInvalidAPIKey      = apierrors.Kind(apierrors.ErrUnauthenticated, "invalid api key")
)

// APIKeyService manages the lifecycle of API keys and authenticates with them.
type APIKeyService struct {
	keyRepo repository.APIKeyRepository
	log     *zap.Logger
	now     func() time.Time
}

// NewAPIKeyService creates a new APIKeyService
func NewAPIKeyService(keyRepo repository.APIKeyRepository, log *zap.Logger) *APIKeyService {
	return &APIKeyService{
		keyRepo: keyRepo,
		log:     log.Named("APIKeyService"),
		now:     time.Now,
	}
}

// CreateAPIKeyInput names a new key
type CreateAPIKeyInput struct {
	UserID      uint64
	Name        string
	Description string
}

// CreateAPIKey generates and stores a key. The returned plaintext is not recoverable later.
func (s *APIKeyService) CreateAPIKey(ctx context.Context, input CreateAPIKeyInput) (*models.APIKey, string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, "", ErrAPIKeyNameRequired
	}

	generated, err := utils.GenerateAPIKey()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate api key: %w", err)
	}

	key := &models.APIKey{
		UserID:      input.UserID,
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		KeyHash:     generated.Hash,
		Prefix:      generated.Prefix,
		IsActive:    true,
	}

	if err := s.keyRepo.Create(ctx, key); err != nil {
		return nil, "", fmt.Errorf("failed to store api key: %w", err)
	}

	s.log.Info("api key created", zap.Uint64("user_id", key.UserID), zap.String("prefix", key.Prefix))
	return key, generated.Plaintext, nil
}

// ListAPIKeys lists the keys of a user
func (s *APIKeyService) ListAPIKeys(ctx context.Context, userID uint64) ([]models.APIKey, error) {
	keys, err := s.keyRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

// DeleteAPIKey deletes one of the user's own keys. Keys of other users look missing.
func (s *APIKeyService) DeleteAPIKey(ctx context.Context, userID, keyID uint64) error {
	deleted, err := s.keyRepo.DeleteForUser(ctx, keyID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete api key: %w", err)
	}
	if !deleted {
		return ErrAPIKeyNotFound
	}
	return nil
}

// Authenticate resolves a presented plaintext key to its active stored key
// and records the use.
func (s *APIKeyService) Authenticate(ctx context.Context, plaintext string) (*models.APIKey, error) {
	if plaintext == "" {
		metrics.APIKeyAuthAmount.WithLabelValues("missing").Inc()
		return nil, ErrInvalidAPIKey
	}

	key, err := s.keyRepo.FindByHash(ctx, utils.HashAPIKey(plaintext))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.APIKeyAuthAmount.WithLabelValues("unknown").Inc()
			return nil, ErrInvalidAPIKey
		}
		return nil, fmt.Errorf("failed to find api key: %w", err)
	}

	if !key.IsActive {
		metrics.APIKeyAuthAmount.WithLabelValues("inactive").Inc()
		return nil, ErrInvalidAPIKey
	}

	usedAt := s.now()
	if err := s.keyRepo.UpdateLastUsed(ctx, key.ID, usedAt); err != nil {
		// The key is valid even if the timestamp write fails
		s.log.Warn("failed to record api key use", zap.Uint64("api_key_id", key.ID), zap.Error(err))
	} else {
		key.LastUsedAt = &usedAt
	}

	metrics.APIKeyAuthAmount.WithLabelValues("ok").Inc()
	return key, nil
}
