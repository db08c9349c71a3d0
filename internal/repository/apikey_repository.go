package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/yukikurage/promptvault-api/internal/models"
)

// GormAPIKeyRepository is a GORM implementation of APIKeyRepository
type GormAPIKeyRepository struct {
	db *gorm.DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *gorm.DB) APIKeyRepository {
	return &GormAPIKeyRepository{db: db}
}

// Create stores a new key
func (r *GormAPIKeyRepository) Create(ctx context.Context, key *models.APIKey) error {
	return r.db.WithContext(ctx).Create(key).Error
}

// FindByHash finds a key by the hash of its plaintext, active or not
func (r *GormAPIKeyRepository) FindByHash(ctx context.Context, keyHash string) (*models.APIKey, error) {
	var key models.APIKey
	if err := r.db.WithContext(ctx).Where("key_hash = ?", keyHash).First(&key).Error; err != nil {
		return nil, err
	}
	return &key, nil
}

// ListByUser lists the keys a user owns, newest first
func (r *GormAPIKeyRepository) ListByUser(ctx context.Context, userID uint64) ([]models.APIKey, error) {
	var keys []models.APIKey
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteForUser hard deletes a key if userID owns it
func (r *GormAPIKeyRepository) DeleteForUser(ctx context.Context, id, userID uint64) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.APIKey{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateLastUsed records the time a key was last presented
func (r *GormAPIKeyRepository) UpdateLastUsed(ctx context.Context, id uint64, usedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&models.APIKey{}).
		Where("id = ?", id).
		Update("last_used_at", usedAt).Error
}
