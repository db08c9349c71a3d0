package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/promptvault-api/internal/constants"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/testutil"
)

func TestProjectService_CreateProject(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")

	project, err := env.projects.CreateProject(ctx, CreateProjectInput{Name: "Product Docs", OwnerID: owner.ID})
	require.NoError(t, err)
	assert.Equal(t, "product-docs", project.Slug)
	assert.Equal(t, owner.ID, project.OwnerID)

	memberships, err := env.projects.ListProjectsForUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, models.RoleAdmin, memberships[0].Role)
	assert.Equal(t, project.ID, memberships[0].Project.ID)
}

func TestProjectService_CreateProject_DuplicateSlug(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")
	other := testutil.CreateUser(t, env.db, "other", "other@example.com")

	_, err := env.projects.CreateProject(ctx, CreateProjectInput{Name: "Docs", Slug: "docs", OwnerID: owner.ID})
	require.NoError(t, err)

	_, err = env.projects.CreateProject(ctx, CreateProjectInput{Name: "Other docs", Slug: "docs", OwnerID: other.ID})
	assert.ErrorIs(t, err, ErrProjectSlugTaken)
	assert.ErrorIs(t, err, apierrors.ErrInvalidInput)

	var count int64
	require.NoError(t, env.db.Model(&models.Project{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	memberships, err := env.projects.ListProjectsForUser(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, memberships)
}

func TestProjectService_CreateProject_Validation(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")

	_, err := env.projects.CreateProject(ctx, CreateProjectInput{Name: "   ", OwnerID: owner.ID})
	assert.ErrorIs(t, err, ErrInvalidProjectName)

	_, err = env.projects.CreateProject(ctx, CreateProjectInput{Name: "Docs", Slug: "Not A Slug", OwnerID: owner.ID})
	assert.ErrorIs(t, err, ErrInvalidProjectSlug)
}

func TestProjectService_CreateProject_SlugFitsColumn(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")

	project, err := env.projects.CreateProject(ctx, CreateProjectInput{Name: strings.Repeat("docs ", 50), OwnerID: owner.ID})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(project.Slug), constants.MaxSlugLength)

	_, err = env.projects.CreateProject(ctx, CreateProjectInput{
		Name:    "Docs",
		Slug:    strings.Repeat("a", constants.MaxSlugLength+1),
		OwnerID: owner.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidProjectSlug)
}

func TestProjectService_Authorize(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")
	viewer := testutil.CreateUser(t, env.db, "viewer", "viewer@example.com")
	stranger := testutil.CreateUser(t, env.db, "stranger", "stranger@example.com")
	project := testutil.CreateProject(t, env.db, "docs", owner.ID)
	testutil.AddMember(t, env.db, project.ID, viewer.ID, models.RoleViewer)

	_, member, err := env.projects.Authorize(ctx, project.ID, owner.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, member.Role)

	_, _, err = env.projects.Authorize(ctx, project.ID, viewer.ID, models.RoleViewer)
	require.NoError(t, err)

	_, _, err = env.projects.Authorize(ctx, project.ID, viewer.ID, models.RoleEditor)
	assert.ErrorIs(t, err, ErrInsufficientRole)
	assert.ErrorIs(t, err, apierrors.ErrForbidden)

	_, _, err = env.projects.Authorize(ctx, project.ID, stranger.ID, models.RoleViewer)
	assert.ErrorIs(t, err, ErrNotProjectMember)
	assert.ErrorIs(t, err, apierrors.ErrForbidden)

	_, _, err = env.projects.Authorize(ctx, project.ID+100, owner.ID, models.RoleViewer)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, _, err = env.projects.AuthorizeBySlug(ctx, "missing", owner.ID, models.RoleViewer)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	found, _, err := env.projects.AuthorizeBySlug(ctx, "docs", viewer.ID, models.RoleViewer)
	require.NoError(t, err)
	assert.Equal(t, project.ID, found.ID)
}

func TestProjectService_InviteMember(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")
	invitee := testutil.CreateUser(t, env.db, "invitee", "invitee@example.com")
	project := testutil.CreateProject(t, env.db, "docs", owner.ID)

	member, err := env.projects.InviteMember(ctx, project.ID, InviteMemberInput{Email: "Invitee@example.com", Role: models.RoleEditor})
	require.NoError(t, err)
	assert.Equal(t, invitee.ID, member.UserID)
	assert.Equal(t, models.RoleEditor, member.Role)
	assert.Equal(t, "invitee", member.User.Username)

	_, err = env.projects.InviteMember(ctx, project.ID, InviteMemberInput{Email: "invitee@example.com", Role: models.RoleViewer})
	assert.ErrorIs(t, err, ErrAlreadyProjectMember)

	_, err = env.projects.InviteMember(ctx, project.ID, InviteMemberInput{Email: "ghost@example.com", Role: models.RoleViewer})
	assert.ErrorIs(t, err, ErrInviteeNotFound)
	assert.ErrorIs(t, err, apierrors.ErrNotFound)

	_, err = env.projects.InviteMember(ctx, project.ID, InviteMemberInput{Email: "invitee@example.com", Role: models.ProjectRole("owner")})
	assert.ErrorIs(t, err, ErrInvalidRole)

	members, err := env.projects.ListMembers(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestProjectService_MemberChanges_ProtectOwner(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")
	editor := testutil.CreateUser(t, env.db, "editor", "editor@example.com")
	project := testutil.CreateProject(t, env.db, "docs", owner.ID)
	testutil.AddMember(t, env.db, project.ID, editor.ID, models.RoleEditor)

	_, err := env.projects.UpdateMemberRole(ctx, project.ID, owner.ID, models.RoleViewer)
	assert.ErrorIs(t, err, ErrOwnerMembership)

	assert.ErrorIs(t, env.projects.RemoveMember(ctx, project.ID, owner.ID), ErrOwnerMembership)

	member, err := env.projects.UpdateMemberRole(ctx, project.ID, editor.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, member.Role)

	require.NoError(t, env.projects.RemoveMember(ctx, project.ID, editor.ID))
	assert.ErrorIs(t, env.projects.RemoveMember(ctx, project.ID, editor.ID), ErrProjectMemberNotFound)
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	env := newTestServices(t)
	ctx := context.Background()
	owner := testutil.CreateUser(t, env.db, "owner", "owner@example.com")
	project := testutil.CreateProject(t, env.db, "docs", owner.ID)

	name := "Renamed"
	description := "All product docs"
	updated, err := env.projects.UpdateProject(ctx, project.ID, UpdateProjectInput{Name: &name, Description: &description})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "docs", updated.Slug)
	assert.Equal(t, "All product docs", updated.Description)

	empty := " "
	_, err = env.projects.UpdateProject(ctx, project.ID, UpdateProjectInput{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidProjectName)

	require.NoError(t, env.projects.DeleteProject(ctx, project.ID))
	assert.ErrorIs(t, env.projects.DeleteProject(ctx, project.ID), ErrProjectNotFound)
}
