package repository

import (
	"context"
	"time"

	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProjectRepository defines the interface for project and membership data access
type ProjectRepository interface {
	// CreateWithOwner creates a project and its owner's admin membership atomically
	CreateWithOwner(ctx context.Context, project *models.Project, owner *models.ProjectMember) error

	// FindByID finds a project by ID
	FindByID(ctx context.Context, id uint64) (*models.Project, error)

	// FindBySlug finds a project by its globally unique slug
	FindBySlug(ctx context.Context, slug string) (*models.Project, error)

	// Update updates a project
	Update(ctx context.Context, project *models.Project) error

	// Delete deletes a project and all related data
	Delete(ctx context.Context, id uint64) error

	// AddMember adds a member to a project
	AddMember(ctx context.Context, member *models.ProjectMember) error

	// UpdateMemberRole changes a member's role
	UpdateMemberRole(ctx context.Context, projectID, userID uint64, role models.ProjectRole) error

	// RemoveMember removes a member from a project
	RemoveMember(ctx context.Context, projectID, userID uint64) error

	// FindMember finds a specific project member
	FindMember(ctx context.Context, projectID, userID uint64) (*models.ProjectMember, error)

	// ListMembersByUserID lists all memberships of a user with their projects
	ListMembersByUserID(ctx context.Context, userID uint64) ([]models.ProjectMember, error)

	// ListMembers lists all members of a project with their users
	ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error)
}

// PromptRepository defines the interface for prompt and version data access
type PromptRepository interface {
	// Create creates a new prompt
	Create(ctx context.Context, prompt *models.Prompt) error

	// FindByID finds a prompt by ID inside a project
	FindByID(ctx context.Context, projectID, id uint64) (*models.Prompt, error)

	// FindBySlug finds a prompt by its slug inside a project
	FindBySlug(ctx context.Context, projectID uint64, slug string) (*models.Prompt, error)

	// Update updates a prompt
	Update(ctx context.Context, prompt *models.Prompt) error

	// ListByProject lists a page of prompts and the total count
	ListByProject(ctx context.Context, projectID uint64, params utils.PaginationParams) ([]models.Prompt, int64, error)

	// LatestVersionNumbers returns the highest version number per prompt ID
	LatestVersionNumbers(ctx context.Context, promptIDs []uint64) (map[uint64]int, error)

	// CreateWithFirstVersion inserts a prompt together with its version 1
	CreateWithFirstVersion(ctx context.Context, prompt *models.Prompt, version *models.PromptVersion) error

	// CreateNextVersion numbers and inserts a version in one transaction
	CreateNextVersion(ctx context.Context, version *models.PromptVersion) error

	// FindLatestVersion finds the version with the highest number
	FindLatestVersion(ctx context.Context, promptID uint64) (*models.PromptVersion, error)

	// FindVersion finds an exact version number
	FindVersion(ctx context.Context, promptID uint64, version int) (*models.PromptVersion, error)

	// ListVersions lists all versions, newest first
	ListVersions(ctx context.Context, promptID uint64) ([]models.PromptVersion, error)
}

// APIKeyRepository defines the interface for API key data access
type APIKeyRepository interface {
	// Create stores a new key
	Create(ctx context.Context, key *models.APIKey) error

	// FindByHash finds a key by the hash of its plaintext
	FindByHash(ctx context.Context, keyHash string) (*models.APIKey, error)

	// ListByUser lists the keys a user owns, newest first
	ListByUser(ctx context.Context, userID uint64) ([]models.APIKey, error)

	// DeleteForUser hard deletes a key owned by userID and reports whether a row went away
	DeleteForUser(ctx context.Context, id, userID uint64) (bool, error)

	// UpdateLastUsed records the time a key was last presented
	UpdateLastUsed(ctx context.Context, id uint64, usedAt time.Time) error
}
