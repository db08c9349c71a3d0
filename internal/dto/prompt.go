package dto

import (
	"time"

	"github.com/yukikurage/promptvault-api/internal/models"
)

// PromptDTO represents a prompt in API responses
type PromptDTO struct {
	ID            uint64    `json:"id"`
	ProjectID     uint64    `json:"project_id"`
	Slug          string    `json:"slug"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	LatestVersion int       `json:"latest_version"`
	CreatedBy     uint64    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PromptListResponse represents a paginated list of prompts
type PromptListResponse struct {
	Prompts    []PromptDTO `json:"prompts"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalCount int64       `json:"total_count"`
}

// PromptVersionDTO represents a prompt version in API responses.
// Content is the field programmatic clients read.
type PromptVersionDTO struct {
	ID          uint64    `json:"id"`
	PromptID    uint64    `json:"prompt_id"`
	PromptSlug  string    `json:"slug"`
	ProjectSlug string    `json:"project_slug"`
	Version     int       `json:"version"`
	Content     string    `json:"content"`
	Message     string    `json:"message"`
	AuthorID    uint64    `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// PromptHistoryResponse lists every version of a prompt, newest first
type PromptHistoryResponse struct {
	Prompt   PromptDTO          `json:"prompt"`
	Versions []PromptVersionDTO `json:"versions"`
}

// ToPromptDTO converts a Prompt model to PromptDTO
func ToPromptDTO(prompt models.Prompt, latestVersion int) PromptDTO {
	return PromptDTO{
		ID:            prompt.ID,
		ProjectID:     prompt.ProjectID,
		Slug:          prompt.Slug,
		Title:         prompt.Title,
		Category:      prompt.Category,
		LatestVersion: latestVersion,
		CreatedBy:     prompt.CreatedBy,
		CreatedAt:     prompt.CreatedAt,
		UpdatedAt:     prompt.UpdatedAt,
	}
}

// ToPromptVersionDTO converts a version; prompt and project supply the slugs
func ToPromptVersionDTO(version models.PromptVersion, prompt models.Prompt, project models.Project) PromptVersionDTO {
	return PromptVersionDTO{
		ID:          version.ID,
		PromptID:    version.PromptID,
		PromptSlug:  prompt.Slug,
		ProjectSlug: project.Slug,
		Version:     version.Version,
		Content:     version.Content,
		Message:     version.Message,
		AuthorID:    version.AuthorID,
		CreatedAt:   version.CreatedAt,
	}
}

// ToPromptHistoryResponse converts a prompt and its versions
func ToPromptHistoryResponse(prompt models.Prompt, project models.Project, versions []models.PromptVersion) PromptHistoryResponse {
	latest := 0
	items := make([]PromptVersionDTO, len(versions))
	for i, v := range versions {
		items[i] = ToPromptVersionDTO(v, prompt, project)
		if v.Version > latest {
			latest = v.Version
		}
	}

	return PromptHistoryResponse{
		Prompt:   ToPromptDTO(prompt, latest),
		Versions: items,
	}
}
