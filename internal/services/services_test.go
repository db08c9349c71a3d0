package services

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/promptvault-api/internal/repository"
	"github.com/yukikurage/promptvault-api/internal/testutil"
)

type testServices struct {
	db       *gorm.DB
	auth     *AuthService
	projects *ProjectService
	prompts  *PromptService
	apiKeys  *APIKeyService
}

func newTestServices(t *testing.T) testServices {
	t.Helper()

	db := testutil.NewDB(t)
	log := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	projectService := NewProjectService(repository.NewProjectRepository(db), userRepo, log)

	return testServices{
		db:       db,
		auth:     NewAuthService(userRepo, log),
		projects: projectService,
		prompts:  NewPromptService(repository.NewPromptRepository(db), projectService, log),
		apiKeys:  NewAPIKeyService(repository.NewAPIKeyRepository(db), log),
	}
}
