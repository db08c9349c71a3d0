package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yukikurage/promptvault-api/internal/constants"
	"github.com/yukikurage/promptvault-api/internal/database"
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/utils"
)

// GormPromptRepository is a GORM implementation of PromptRepository
type GormPromptRepository struct {
	db *gorm.DB
}

// NewPromptRepository creates a new PromptRepository
func NewPromptRepository(db *gorm.DB) PromptRepository {
	return &GormPromptRepository{db: db}
}

// Create creates a new prompt
func (r *GormPromptRepository) Create(ctx context.Context, prompt *models.Prompt) error {
	return r.db.WithContext(ctx).Create(prompt).Error
}

// FindByID finds a prompt by ID inside a project
func (r *GormPromptRepository) FindByID(ctx context.Context, projectID, id uint64) (*models.Prompt, error) {
	var prompt models.Prompt
	if err := r.db.WithContext(ctx).Where("id = ? AND project_id = ?", id, projectID).
		First(&prompt).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

// FindBySlug finds a prompt by slug inside a project
func (r *GormPromptRepository) FindBySlug(ctx context.Context, projectID uint64, slug string) (*models.Prompt, error) {
	var prompt models.Prompt
	if err := r.db.WithContext(ctx).Where("project_id = ? AND slug = ?", projectID, slug).
		First(&prompt).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

// Update updates a prompt
func (r *GormPromptRepository) Update(ctx context.Context, prompt *models.Prompt) error {
	return r.db.WithContext(ctx).Save(prompt).Error
}

// ListByProject lists a page of prompts ordered by most recently updated
func (r *GormPromptRepository) ListByProject(ctx context.Context, projectID uint64, params utils.PaginationParams) ([]models.Prompt, int64, error) {
	var (
		prompts []models.Prompt
		total   int64
	)

	scoped := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Prompt{}).Where("project_id = ?", projectID)
	}

	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := scoped().Scopes(database.Paginate(params)).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&prompts).Error; err != nil {
		return nil, 0, err
	}

	return prompts, total, nil
}

type latestVersionRow struct {
	PromptID uint64
	Latest   int
}

// LatestVersionNumbers returns the highest version per prompt. Prompts without versions are absent.
func (r *GormPromptRepository) LatestVersionNumbers(ctx context.Context, promptIDs []uint64) (map[uint64]int, error) {
	latest := make(map[uint64]int, len(promptIDs))
	if len(promptIDs) == 0 {
		return latest, nil
	}

	var rows []latestVersionRow
	if err := r.db.WithContext(ctx).Model(&models.PromptVersion{}).
		Select("prompt_id, MAX(version) AS latest").
		Where("prompt_id IN ?", promptIDs).
		Group("prompt_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		latest[row.PromptID] = row.Latest
	}
	return latest, nil
}

// CreateWithFirstVersion inserts the prompt and version 1 in one transaction,
// so a failed version insert leaves no prompt behind.
func (r *GormPromptRepository) CreateWithFirstVersion(ctx context.Context, prompt *models.Prompt, version *models.PromptVersion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(prompt).Error; err != nil {
			return err
		}

		version.PromptID = prompt.ID
		version.Version = 1
		if version.Message == "" {
			version.Message = fmt.Sprintf(constants.DefaultVersionMessage, version.Version)
		}

		return tx.Create(version).Error
	})
}

// CreateNextVersion assigns max+1 and inserts the row in the same transaction.
// An empty message becomes "Version N". A concurrent writer that wins the same
// number makes the insert fail with gorm.ErrDuplicatedKey.
func (r *GormPromptRepository) CreateNextVersion(ctx context.Context, version *models.PromptVersion) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current int
		if err := tx.Model(&models.PromptVersion{}).
			Select("COALESCE(MAX(version), 0)").
			Where("prompt_id = ?", version.PromptID).
			Scan(&current).Error; err != nil {
			return err
		}

		version.Version = current + 1
		if version.Message == "" {
			version.Message = fmt.Sprintf(constants.DefaultVersionMessage, version.Version)
		}

		if err := tx.Create(version).Error; err != nil {
			return err
		}

		// Touch the prompt so listings order by latest activity
		return tx.Model(&models.Prompt{}).
			Where("id = ?", version.PromptID).
			Update("updated_at", version.CreatedAt).Error
	})
}

// FindLatestVersion finds the version with the highest number
func (r *GormPromptRepository) FindLatestVersion(ctx context.Context, promptID uint64) (*models.PromptVersion, error) {
	var version models.PromptVersion
	if err := r.db.WithContext(ctx).Where("prompt_id = ?", promptID).
		Order("version DESC").
		First(&version).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

// FindVersion finds an exact version number
func (r *GormPromptRepository) FindVersion(ctx context.Context, promptID uint64, number int) (*models.PromptVersion, error) {
	var version models.PromptVersion
	if err := r.db.WithContext(ctx).Where("prompt_id = ? AND version = ?", promptID, number).
		First(&version).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

// ListVersions lists all versions, newest first
func (r *GormPromptRepository) ListVersions(ctx context.Context, promptID uint64) ([]models.PromptVersion, error) {
	var versions []models.PromptVersion
	if err := r.db.WithContext(ctx).Where("prompt_id = ?", promptID).
		Order("version DESC").
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}
