package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/testutil"
)

func TestProjectRepository_CreateWithOwner(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner", "owner@example.com")

	project := &models.Project{Name: "Docs", Slug: "docs", OwnerID: owner.ID}
	member := &models.ProjectMember{Role: models.RoleAdmin}
	require.NoError(t, repo.CreateWithOwner(ctx, project, member))

	found, err := repo.FindMember(ctx, project.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, found.Role)

	memberships, err := repo.ListMembersByUserID(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	assert.Equal(t, "docs", memberships[0].Project.Slug)
}

func TestProjectRepository_CreateWithOwner_DuplicateSlugRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner", "owner@example.com")
	testutil.CreateProject(t, db, "docs", owner.ID)

	err := repo.CreateWithOwner(ctx, &models.Project{Name: "Docs", Slug: "docs", OwnerID: owner.ID}, &models.ProjectMember{Role: models.RoleAdmin})
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, err, ErrCreateProject)

	var count int64
	require.NoError(t, db.Model(&models.Project{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestProjectRepository_MemberRoleChanges(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner", "owner@example.com")
	viewer := testutil.CreateUser(t, db, "viewer", "viewer@example.com")
	project := testutil.CreateProject(t, db, "docs", owner.ID)
	testutil.AddMember(t, db, project.ID, viewer.ID, models.RoleViewer)

	require.NoError(t, repo.UpdateMemberRole(ctx, project.ID, viewer.ID, models.RoleEditor))
	member, err := repo.FindMember(ctx, project.ID, viewer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, member.Role)

	assert.ErrorIs(t, repo.UpdateMemberRole(ctx, project.ID, 9999, models.RoleEditor), gorm.ErrRecordNotFound)

	members, err := repo.ListMembers(ctx, project.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	require.NoError(t, repo.RemoveMember(ctx, project.ID, viewer.ID))
	_, err = repo.FindMember(ctx, project.ID, viewer.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProjectRepository_DeleteRemovesEverything(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	prompts := NewPromptRepository(db)
	ctx := context.Background()
	owner := testutil.CreateUser(t, db, "owner", "owner@example.com")
	project := testutil.CreateProject(t, db, "docs", owner.ID)
	keep := testutil.CreateProject(t, db, "keep", owner.ID)

	for _, p := range []*models.Project{project, keep} {
		prompt := &models.Prompt{ProjectID: p.ID, Slug: "greeting", Title: "Greeting", CreatedBy: owner.ID}
		require.NoError(t, prompts.Create(ctx, prompt))
		require.NoError(t, prompts.CreateNextVersion(ctx, &models.PromptVersion{PromptID: prompt.ID, Content: "Hello", AuthorID: owner.ID}))
	}

	require.NoError(t, repo.Delete(ctx, project.ID))

	_, err := repo.FindByID(ctx, project.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var promptCount, versionCount, memberCount int64
	require.NoError(t, db.Model(&models.Prompt{}).Count(&promptCount).Error)
	require.NoError(t, db.Model(&models.PromptVersion{}).Count(&versionCount).Error)
	require.NoError(t, db.Model(&models.ProjectMember{}).Count(&memberCount).Error)
	assert.Equal(t, int64(1), promptCount)
	assert.Equal(t, int64(1), versionCount)
	assert.Equal(t, int64(1), memberCount)
}
