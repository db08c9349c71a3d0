// Package testutil holds helpers shared by package tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yukikurage/promptvault-api/internal/database"
	"github.com/yukikurage/promptvault-api/internal/models"
)

// NewDB opens a migrated in-memory sqlite database that is closed with the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Every connection to ":memory:" is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// CreateUser inserts a user with a placeholder password hash.
func CreateUser(t testing.TB, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProject inserts a project owned by ownerID together with the owner's admin membership.
func CreateProject(t testing.TB, db *gorm.DB, slug string, ownerID uint64) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:    slug,
		Slug:    slug,
		OwnerID: ownerID,
	}
	require.NoError(t, db.Create(project).Error)
	AddMember(t, db, project.ID, ownerID, models.RoleAdmin)
	return project
}

// AddMember inserts a membership row.
func AddMember(t testing.TB, db *gorm.DB, projectID, userID uint64, role models.ProjectRole) {
	t.Helper()

	require.NoError(t, db.Create(&models.ProjectMember{
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
	}).Error)
}
