package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yukikurage/promptvault-api/internal/constants"
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/repository"
	"github.com/yukikurage/promptvault-api/internal/services"
	"github.com/yukikurage/promptvault-api/internal/testutil"
)

func TestRequireProjectRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)

	owner := testutil.CreateUser(t, db, "owner", "owner@example.com")
	editor := testutil.CreateUser(t, db, "editor", "editor@example.com")
	viewer := testutil.CreateUser(t, db, "viewer", "viewer@example.com")
	outsider := testutil.CreateUser(t, db, "outsider", "outsider@example.com")
	project := testutil.CreateProject(t, db, "docs", owner.ID)
	testutil.AddMember(t, db, project.ID, editor.ID, models.RoleEditor)
	testutil.AddMember(t, db, project.ID, viewer.ID, models.RoleViewer)

	projectService := services.NewProjectService(repository.NewProjectRepository(db), repository.NewUserRepository(db), zap.NewNop())

	var userID uint64
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != 0 {
			c.Set(constants.ContextKeyUserID, userID)
		}
		c.Next()
	})
	r.GET("/projects/:id", RequireProjectRole(projectService, models.RoleEditor), func(c *gin.Context) {
		p, _ := GetProject(c)
		m, _ := GetProjectMember(c)
		c.JSON(http.StatusOK, gin.H{"slug": p.Slug, "role": m.Role})
	})

	tests := []struct {
		name       string
		user       uint64
		path       string
		wantStatus int
		wantRole   models.ProjectRole
	}{
		{"owner", owner.ID, "/projects/1", http.StatusOK, models.RoleAdmin},
		{"editor", editor.ID, "/projects/1", http.StatusOK, models.RoleEditor},
		{"viewer below required role", viewer.ID, "/projects/1", http.StatusForbidden, ""},
		{"non-member", outsider.ID, "/projects/1", http.StatusForbidden, ""},
		{"unknown project", owner.ID, "/projects/99", http.StatusNotFound, ""},
		{"malformed id", owner.ID, "/projects/abc", http.StatusBadRequest, ""},
		{"anonymous", 0, "/projects/1", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID = tt.user

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				Slug string             `json:"slug"`
				Role models.ProjectRole `json:"role"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "docs", body.Slug)
			assert.Equal(t, tt.wantRole, body.Role)
		})
	}
}
