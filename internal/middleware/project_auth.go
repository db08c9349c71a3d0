package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/promptvault-api/internal/constants"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/services"
)

// RequireProjectRole checks that the user is a member of the :id project with at least minRole.
// The project and membership are stored in the context for the handler.
func RequireProjectRole(projectService *services.ProjectService, minRole models.ProjectRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		projectID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid project ID")
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		project, member, err := projectService.Authorize(c.Request.Context(), projectID, userID, minRole)
		if err != nil {
			apierrors.Respond(c, err)
			return
		}

		c.Set(constants.ContextKeyProject, *project)
		c.Set(constants.ContextKeyMember, *member)
		c.Next()
	}
}

// GetProject retrieves the project stored by RequireProjectRole
func GetProject(c *gin.Context) (models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return models.Project{}, false
	}
	project, ok := value.(models.Project)
	return project, ok
}

// GetProjectMember retrieves the caller's membership stored by RequireProjectRole
func GetProjectMember(c *gin.Context) (models.ProjectMember, bool) {
	value, exists := c.Get(constants.ContextKeyMember)
	if !exists {
		return models.ProjectMember{}, false
	}
	member, ok := value.(models.ProjectMember)
	return member, ok
}
