package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/promptvault-api/internal/constants"
	"github.com/yukikurage/promptvault-api/internal/dto"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/repository"
	"github.com/yukikurage/promptvault-api/internal/services"
	"github.com/yukikurage/promptvault-api/internal/testutil"
)

// setupPromptRouter mounts the slug routes behind a stub that authenticates as *userID.
func setupPromptRouter(t *testing.T) (*gin.Engine, *gorm.DB, *uint64) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	log := zap.NewNop()
	projectService := services.NewProjectService(repository.NewProjectRepository(db), repository.NewUserRepository(db), log)
	handler := NewPromptHandler(services.NewPromptService(repository.NewPromptRepository(db), projectService, log))

	var userID uint64
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	})
	r.GET("/api/prompts/:slug", handler.GetVersion)
	r.POST("/api/prompts/:slug", handler.CreateVersion)
	r.GET("/api/prompts/:slug/versions", handler.ListVersions)

	return r, db, &userID
}

func getJSON(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPromptHandler_CreateAndGetVersions(t *testing.T) {
	r, db, userID := setupPromptRouter(t)
	user := testutil.CreateUser(t, db, "owner", "owner@example.com")
	testutil.CreateProject(t, db, "docs", user.ID)
	*userID = user.ID

	w := postJSON(t, r, "/api/prompts/greeting", map[string]string{"projectSlug": "docs", "content": "Hello"})
	require.Equal(t, http.StatusCreated, w.Code)

	var first dto.PromptVersionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, "Version 1", first.Message)
	assert.Equal(t, "greeting", first.PromptSlug)
	assert.Equal(t, "docs", first.ProjectSlug)

	w = postJSON(t, r, "/api/prompts/greeting", map[string]string{"projectSlug": "docs", "content": "Hi", "message": "shorter"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = getJSON(r, "/api/prompts/greeting?projectSlug=docs")
	require.Equal(t, http.StatusOK, w.Code)
	var latest dto.PromptVersionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &latest))
	assert.Equal(t, 2, latest.Version)
	assert.Equal(t, "Hi", latest.Content)
	assert.Equal(t, "shorter", latest.Message)

	w = getJSON(r, "/api/prompts/greeting?projectSlug=docs&version=1")
	require.Equal(t, http.StatusOK, w.Code)
	var pinned dto.PromptVersionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pinned))
	assert.Equal(t, "Hello", pinned.Content)

	w = getJSON(r, "/api/prompts/greeting/versions?projectSlug=docs")
	require.Equal(t, http.StatusOK, w.Code)
	var history dto.PromptHistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Versions, 2)
	assert.Equal(t, 2, history.Versions[0].Version)
	assert.Equal(t, 1, history.Versions[1].Version)
	assert.Equal(t, 2, history.Prompt.LatestVersion)
}

func TestPromptHandler_GetVersion_Errors(t *testing.T) {
	r, db, userID := setupPromptRouter(t)
	user := testutil.CreateUser(t, db, "owner", "owner@example.com")
	testutil.CreateProject(t, db, "docs", user.ID)
	*userID = user.ID

	w := postJSON(t, r, "/api/prompts/greeting", map[string]string{"projectSlug": "docs", "content": "Hello"})
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantCode   string
	}{
		{"missing project slug", "/api/prompts/greeting", http.StatusBadRequest, apierrors.ErrCodeInvalidInput},
		{"non-numeric version", "/api/prompts/greeting?projectSlug=docs&version=latest", http.StatusBadRequest, apierrors.ErrCodeInvalidInput},
		{"zero version", "/api/prompts/greeting?projectSlug=docs&version=0", http.StatusBadRequest, apierrors.ErrCodeInvalidInput},
		{"unknown version", "/api/prompts/greeting?projectSlug=docs&version=9", http.StatusNotFound, apierrors.ErrCodeNotFound},
		{"unknown prompt", "/api/prompts/farewell?projectSlug=docs", http.StatusNotFound, apierrors.ErrCodeNotFound},
		{"unknown project", "/api/prompts/greeting?projectSlug=nope", http.StatusNotFound, apierrors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := getJSON(r, tt.path)
			assert.Equal(t, tt.wantStatus, w.Code)

			var response apierrors.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantCode, response.Code)
		})
	}
}

func TestPromptHandler_CreateVersion_RoleChecks(t *testing.T) {
	r, db, userID := setupPromptRouter(t)
	owner := testutil.CreateUser(t, db, "owner", "owner@example.com")
	viewer := testutil.CreateUser(t, db, "viewer", "viewer@example.com")
	outsider := testutil.CreateUser(t, db, "outsider", "outsider@example.com")
	project := testutil.CreateProject(t, db, "docs", owner.ID)
	testutil.AddMember(t, db, project.ID, viewer.ID, models.RoleViewer)

	*userID = viewer.ID
	w := postJSON(t, r, "/api/prompts/greeting", map[string]string{"projectSlug": "docs", "content": "Hello"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	*userID = outsider.ID
	w = postJSON(t, r, "/api/prompts/greeting", map[string]string{"projectSlug": "docs", "content": "Hello"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Prompt{}).Count(&count).Error)
	assert.Zero(t, count)

	*userID = owner.ID
	w = postJSON(t, r, "/api/prompts/greeting", map[string]string{"projectSlug": "docs"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/prompts/Not%20A%20Slug", map[string]string{"projectSlug": "docs", "content": "Hello"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/prompts/"+strings.Repeat("a", constants.MaxSlugLength+1), map[string]string{"projectSlug": "docs", "content": "Hello"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var response apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, apierrors.ErrCodeInvalidInput, response.Code)
}
