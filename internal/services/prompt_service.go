package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/promptvault-api/internal/constants"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/metrics"
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/repository"
	"github.com/yukikurage/promptvault-api/internal/utils"
)

var (
	ErrPromptNotFound     = apierrors.Kind(apierrors.ErrNotFound, "prompt not found")
	ErrVersionNotFound    = apierrors.Kind(apierrors.ErrNotFound, "prompt version not found")
	ErrInvalidPromptSlug  = apierrors.Kind(apierrors.ErrInvalidInput, "prompt slug must contain only lowercase letters, digits, '-', '_' or '.'")
	ErrPromptSlugTaken    = apierrors.Kind(apierrors.ErrConflict, "prompt slug already exists in this project")
	ErrTitleEmpty         = apierrors.Kind(apierrors.ErrInvalidInput, "title cannot be empty")
	ErrContentRequired    = apierrors.Kind(apierrors.ErrInvalidInput, "content is required")
	ErrProjectSlugMissing = apierrors.Kind(apierrors.ErrInvalidInput, "projectSlug is required")
	ErrInvalidVersion     = apierrors.Kind(apierrors.ErrInvalidInput, "version must be a positive integer")

	// ErrVersionConflict is returned when every attempt lost the numbering race.
	ErrVersionConflict = errors.New("failed to allocate a version number")
)

// PromptService handles prompts and their versions.
type PromptService struct {
	promptRepo     repository.PromptRepository
	projectService *ProjectService
	log            *zap.Logger
}

// NewPromptService creates a new PromptService
func NewPromptService(promptRepo repository.PromptRepository, projectService *ProjectService, log *zap.Logger) *PromptService {
	return &PromptService{
		promptRepo:     promptRepo,
		projectService: projectService,
		log:            log.Named("PromptService"),
	}
}

// PromptSummary is a prompt with the number of its newest version (0 when it has none).
type PromptSummary struct {
	Prompt        models.Prompt
	LatestVersion int
}

// ListPrompts returns one page of a project's prompts and the total count.
func (s *PromptService) ListPrompts(ctx context.Context, projectID uint64, params utils.PaginationParams) ([]PromptSummary, int64, error) {
	prompts, total, err := s.promptRepo.ListByProject(ctx, projectID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list prompts: %w", err)
	}

	ids := make([]uint64, len(prompts))
	for i, p := range prompts {
		ids[i] = p.ID
	}

	latest, err := s.promptRepo.LatestVersionNumbers(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load latest versions: %w", err)
	}

	summaries := make([]PromptSummary, len(prompts))
	for i, p := range prompts {
		summaries[i] = PromptSummary{Prompt: p, LatestVersion: latest[p.ID]}
	}

	return summaries, total, nil
}

// CreatePromptInput represents input for creating a prompt explicitly
type CreatePromptInput struct {
	ProjectID uint64
	Slug      string
	Title     string
	Category  string
	Content   string
	Message   string
	AuthorID  uint64
}

// CreatePrompt creates a prompt. Non-empty content also becomes version 1,
// in which case the version is returned as well.
func (s *PromptService) CreatePrompt(ctx context.Context, input CreatePromptInput) (*models.Prompt, *models.PromptVersion, error) {
	slug := strings.TrimSpace(input.Slug)
	if !utils.IsPromptSlug(slug) {
		return nil, nil, ErrInvalidPromptSlug
	}

	if _, err := s.promptRepo.FindBySlug(ctx, input.ProjectID, slug); err == nil {
		return nil, nil, ErrPromptSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("failed to check prompt slug: %w", err)
	}

	prompt := newPrompt(input.ProjectID, slug, input.AuthorID)
	if title := strings.TrimSpace(input.Title); title != "" {
		prompt.Title = title
	}
	if category := strings.TrimSpace(input.Category); category != "" {
		prompt.Category = category
	}

	if input.Content == "" {
		if err := s.promptRepo.Create(ctx, prompt); err != nil {
			return nil, nil, createPromptError(err)
		}
		metrics.PromptsCreatedAmount.Inc()
		return prompt, nil, nil
	}

	version := &models.PromptVersion{
		Content:  input.Content,
		Message:  strings.TrimSpace(input.Message),
		AuthorID: input.AuthorID,
	}
	if err := s.promptRepo.CreateWithFirstVersion(ctx, prompt, version); err != nil {
		return nil, nil, createPromptError(err)
	}
	metrics.PromptsCreatedAmount.Inc()
	metrics.PromptVersionsCreatedAmount.Inc()

	return prompt, version, nil
}

func createPromptError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrPromptSlugTaken
	}
	return fmt.Errorf("failed to create prompt: %w", err)
}

// UpdatePromptInput holds the optional metadata fields of a prompt
type UpdatePromptInput struct {
	Title    *string
	Category *string
}

// UpdatePrompt changes a prompt's title or category. Content changes go through versions.
func (s *PromptService) UpdatePrompt(ctx context.Context, projectID, promptID uint64, input UpdatePromptInput) (*models.Prompt, int, error) {
	prompt, err := s.promptRepo.FindByID(ctx, projectID, promptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrPromptNotFound
		}
		return nil, 0, fmt.Errorf("failed to find prompt: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, 0, ErrTitleEmpty
		}
		prompt.Title = title
	}
	if input.Category != nil {
		category := strings.TrimSpace(*input.Category)
		if category == "" {
			category = constants.DefaultPromptCategory
		}
		prompt.Category = category
	}

	if err := s.promptRepo.Update(ctx, prompt); err != nil {
		return nil, 0, fmt.Errorf("failed to update prompt: %w", err)
	}

	latest, err := s.promptRepo.LatestVersionNumbers(ctx, []uint64{prompt.ID})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load latest version: %w", err)
	}

	return prompt, latest[prompt.ID], nil
}

// CreateVersionInput addresses the prompt by project and prompt slug
type CreateVersionInput struct {
	ProjectSlug string
	PromptSlug  string
	Content     string
	Message     string
	AuthorID    uint64
}

// VersionResult bundles a version with the prompt and project it belongs to
type VersionResult struct {
	Project models.Project
	Prompt  models.Prompt
	Version models.PromptVersion
}

// CreateVersion appends the next version of a prompt, creating the prompt on first write.
func (s *PromptService) CreateVersion(ctx context.Context, input CreateVersionInput) (*VersionResult, error) {
	if strings.TrimSpace(input.ProjectSlug) == "" {
		return nil, ErrProjectSlugMissing
	}
	if input.Content == "" {
		return nil, ErrContentRequired
	}

	project, _, err := s.projectService.AuthorizeBySlug(ctx, input.ProjectSlug, input.AuthorID, models.RoleEditor)
	if err != nil {
		return nil, err
	}

	prompt, err := s.getOrCreatePrompt(ctx, project.ID, strings.TrimSpace(input.PromptSlug), input.AuthorID)
	if err != nil {
		return nil, err
	}

	version, err := s.appendVersion(ctx, prompt.ID, input.Content, strings.TrimSpace(input.Message), input.AuthorID)
	if err != nil {
		return nil, err
	}

	return &VersionResult{Project: *project, Prompt: *prompt, Version: *version}, nil
}

// GetVersionInput selects the newest version when Version is nil
type GetVersionInput struct {
	ProjectSlug string
	PromptSlug  string
	Version     *int
	UserID      uint64
}

// GetVersion returns the latest version of a prompt or an exact one.
func (s *PromptService) GetVersion(ctx context.Context, input GetVersionInput) (*VersionResult, error) {
	if input.Version != nil && *input.Version <= 0 {
		return nil, ErrInvalidVersion
	}

	project, prompt, err := s.findReadablePrompt(ctx, input.ProjectSlug, input.PromptSlug, input.UserID)
	if err != nil {
		return nil, err
	}

	var version *models.PromptVersion
	if input.Version == nil {
		version, err = s.promptRepo.FindLatestVersion(ctx, prompt.ID)
	} else {
		version, err = s.promptRepo.FindVersion(ctx, prompt.ID, *input.Version)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, fmt.Errorf("failed to find prompt version: %w", err)
	}

	return &VersionResult{Project: *project, Prompt: *prompt, Version: *version}, nil
}

// ListVersions returns the full history of a prompt, newest first.
func (s *PromptService) ListVersions(ctx context.Context, projectSlug, promptSlug string, userID uint64) (*models.Project, *models.Prompt, []models.PromptVersion, error) {
	project, prompt, err := s.findReadablePrompt(ctx, projectSlug, promptSlug, userID)
	if err != nil {
		return nil, nil, nil, err
	}

	versions, err := s.promptRepo.ListVersions(ctx, prompt.ID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to list prompt versions: %w", err)
	}

	return project, prompt, versions, nil
}

func (s *PromptService) findReadablePrompt(ctx context.Context, projectSlug, promptSlug string, userID uint64) (*models.Project, *models.Prompt, error) {
	if strings.TrimSpace(projectSlug) == "" {
		return nil, nil, ErrProjectSlugMissing
	}

	project, _, err := s.projectService.AuthorizeBySlug(ctx, projectSlug, userID, models.RoleViewer)
	if err != nil {
		return nil, nil, err
	}

	prompt, err := s.promptRepo.FindBySlug(ctx, project.ID, promptSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrPromptNotFound
		}
		return nil, nil, fmt.Errorf("failed to find prompt: %w", err)
	}

	return project, prompt, nil
}

func (s *PromptService) getOrCreatePrompt(ctx context.Context, projectID uint64, slug string, authorID uint64) (*models.Prompt, error) {
	prompt, err := s.promptRepo.FindBySlug(ctx, projectID, slug)
	if err == nil {
		return prompt, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find prompt: %w", err)
	}

	if !utils.IsPromptSlug(slug) {
		return nil, ErrInvalidPromptSlug
	}

	prompt = newPrompt(projectID, slug, authorID)
	if err := s.promptRepo.Create(ctx, prompt); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create prompt: %w", err)
		}
		// A concurrent writer created it first
		prompt, err = s.promptRepo.FindBySlug(ctx, projectID, slug)
		if err != nil {
			return nil, fmt.Errorf("failed to find prompt: %w", err)
		}
		return prompt, nil
	}

	metrics.PromptsCreatedAmount.Inc()
	s.log.Info("prompt created on first write", zap.Uint64("project_id", projectID), zap.String("slug", slug))
	return prompt, nil
}

func (s *PromptService) appendVersion(ctx context.Context, promptID uint64, content, message string, authorID uint64) (*models.PromptVersion, error) {
	for attempt := 1; attempt <= constants.MaxVersionAttempts; attempt++ {
		version := &models.PromptVersion{
			PromptID: promptID,
			Content:  content,
			Message:  message,
			AuthorID: authorID,
		}

		err := s.promptRepo.CreateNextVersion(ctx, version)
		if err == nil {
			metrics.PromptVersionsCreatedAmount.Inc()
			return version, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("failed to create prompt version: %w", err)
		}

		metrics.PromptVersionConflictAmount.Inc()
		s.log.Warn("version number taken by a concurrent writer, retrying",
			zap.Uint64("prompt_id", promptID),
			zap.Int("attempt", attempt))
	}

	return nil, ErrVersionConflict
}

func newPrompt(projectID uint64, slug string, authorID uint64) *models.Prompt {
	return &models.Prompt{
		ProjectID: projectID,
		Slug:      slug,
		Title:     utils.TitleFromSlug(slug),
		Category:  constants.DefaultPromptCategory,
		CreatedBy: authorID,
	}
}
