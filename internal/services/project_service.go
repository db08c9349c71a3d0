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
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/repository"
	"github.com/yukikurage/promptvault-api/internal/utils"
)

var (
	ErrProjectNotFound       = apierrors.Kind(apierrors.ErrNotFound, "project not found")
	ErrInvalidProjectName    = apierrors.Kind(apierrors.ErrInvalidInput, "project name cannot be empty")
	ErrInvalidProjectSlug    = apierrors.Kind(apierrors.ErrInvalidInput, "project slug must contain only lowercase letters, digits, '-' or '_'")
	ErrProjectSlugTaken      = apierrors.Kind(apierrors.ErrConflict, "project slug already exists")
	ErrNotProjectMember      = apierrors.Kind(apierrors.ErrForbidden, "you are not a member of this project")
	ErrInsufficientRole      = apierrors.Kind(apierrors.ErrForbidden, "your role does not allow this action")
	ErrInvalidRole           = apierrors.Kind(apierrors.ErrInvalidInput, "role must be one of viewer, editor, admin")
	ErrAlreadyProjectMember  = apierrors.Kind(apierrors.ErrConflict, "user is already a member of this project")
	ErrProjectMemberNotFound = apierrors.Kind(apierrors.ErrNotFound, "project member not found")
	ErrInviteeNotFound       = apierrors.Kind(apierrors.ErrNotFound, "no user with this email")
	ErrOwnerMembership       = apierrors.Kind(apierrors.ErrInvalidInput, "the project owner's membership cannot be changed")
)

// ProjectService provides business logic for projects, memberships and role checks.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	log         *zap.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projectRepo repository.ProjectRepository, userRepo repository.UserRepository, log *zap.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		userRepo:    userRepo,
		log:         log.Named("ProjectService"),
	}
}

// CreateProjectInput represents parameters to create a new project.
type CreateProjectInput struct {
	Name        string
	Slug        string
	Description string
	OwnerID     uint64
}

// CreateProject creates a project; the creator becomes its admin.
// An empty slug is derived from the name.
func (s *ProjectService) CreateProject(ctx context.Context, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidProjectName
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = utils.MakeSlug(name)
	}
	if !utils.IsSlug(slug) {
		return nil, ErrInvalidProjectSlug
	}

	if _, err := s.projectRepo.FindBySlug(ctx, slug); err == nil {
		return nil, ErrProjectSlugTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check project slug: %w", err)
	}

	project := &models.Project{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     input.OwnerID,
	}
	owner := &models.ProjectMember{
		Role:     models.RoleAdmin,
		JoinedAt: time.Now(),
	}

	if err := s.projectRepo.CreateWithOwner(ctx, project, owner); err != nil {
		// Lost a race with another creator of the same slug
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrProjectSlugTaken
		}
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.log.Info("project created", zap.Uint64("project_id", project.ID), zap.String("slug", project.Slug))
	return project, nil
}

// ListProjectsForUser returns the memberships of a user with their projects.
func (s *ProjectService) ListProjectsForUser(ctx context.Context, userID uint64) ([]models.ProjectMember, error) {
	memberships, err := s.projectRepo.ListMembersByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return memberships, nil
}

// Authorize checks that userID is a member of projectID with at least minRole.
func (s *ProjectService) Authorize(ctx context.Context, projectID, userID uint64, minRole models.ProjectRole) (*models.Project, *models.ProjectMember, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	member, err := s.authorizeMember(ctx, project.ID, userID, minRole)
	if err != nil {
		return nil, nil, err
	}

	return project, member, nil
}

// AuthorizeBySlug is Authorize for callers that address the project by slug.
func (s *ProjectService) AuthorizeBySlug(ctx context.Context, projectSlug string, userID uint64, minRole models.ProjectRole) (*models.Project, *models.ProjectMember, error) {
	project, err := s.projectRepo.FindBySlug(ctx, projectSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project: %w", err)
	}

	member, err := s.authorizeMember(ctx, project.ID, userID, minRole)
	if err != nil {
		return nil, nil, err
	}

	return project, member, nil
}

func (s *ProjectService) authorizeMember(ctx context.Context, projectID, userID uint64, minRole models.ProjectRole) (*models.ProjectMember, error) {
	member, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotProjectMember
		}
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	if !member.Role.AtLeast(minRole) {
		return nil, ErrInsufficientRole
	}

	return member, nil
}

// GetProjectWithMembers returns a project and all of its members.
func (s *ProjectService) GetProjectWithMembers(ctx context.Context, projectID uint64) (*models.Project, []models.ProjectMember, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.ListMembers(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	return project, members, nil
}

// ListMembers lists the members of a project with their users.
func (s *ProjectService) ListMembers(ctx context.Context, projectID uint64) ([]models.ProjectMember, error) {
	members, err := s.projectRepo.ListMembers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	return members, nil
}

// UpdateProjectInput holds the optional fields of a project update.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// UpdateProject updates a project's name and description. The slug never changes.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID uint64, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidProjectName
		}
		project.Name = name
	}
	if input.Description != nil {
		project.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project with its members, prompts and versions.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID uint64) error {
	if _, err := s.findProject(ctx, projectID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.log.Info("project deleted", zap.Uint64("project_id", projectID))
	return nil
}

// InviteMemberInput identifies the invitee by email.
type InviteMemberInput struct {
	Email string
	Role  models.ProjectRole
}

// InviteMember adds an existing user to a project with the given role.
func (s *ProjectService) InviteMember(ctx context.Context, projectID uint64, input InviteMemberInput) (*models.ProjectMember, error) {
	if !input.Role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInviteeNotFound
		}
		return nil, fmt.Errorf("failed to find invitee: %w", err)
	}

	if _, err := s.projectRepo.FindMember(ctx, projectID, user.ID); err == nil {
		return nil, ErrAlreadyProjectMember
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to verify membership: %w", err)
	}

	member := &models.ProjectMember{
		ProjectID: projectID,
		UserID:    user.ID,
		Role:      input.Role,
		JoinedAt:  time.Now(),
	}

	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyProjectMember
		}
		return nil, fmt.Errorf("failed to add member to project: %w", err)
	}

	member.User = *user
	return member, nil
}

// UpdateMemberRole changes a member's role. The owner always stays admin.
func (s *ProjectService) UpdateMemberRole(ctx context.Context, projectID, userID uint64, role models.ProjectRole) (*models.ProjectMember, error) {
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	project, member, err := s.findMember(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID == userID {
		return nil, ErrOwnerMembership
	}

	if err := s.projectRepo.UpdateMemberRole(ctx, projectID, userID, role); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectMemberNotFound
		}
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	member.Role = role
	return member, nil
}

// RemoveMember removes a member from the project. The owner cannot be removed.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, userID uint64) error {
	project, _, err := s.findMember(ctx, projectID, userID)
	if err != nil {
		return err
	}
	if project.OwnerID == userID {
		return ErrOwnerMembership
	}

	if err := s.projectRepo.RemoveMember(ctx, projectID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	return nil
}

func (s *ProjectService) findMember(ctx context.Context, projectID, userID uint64) (*models.Project, *models.ProjectMember, error) {
	project, err := s.findProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	member, err := s.projectRepo.FindMember(ctx, projectID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProjectMemberNotFound
		}
		return nil, nil, fmt.Errorf("failed to find project member: %w", err)
	}

	return project, member, nil
}

func (s *ProjectService) findProject(ctx context.Context, projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}
