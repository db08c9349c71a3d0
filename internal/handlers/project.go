package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/promptvault-api/internal/dto"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/middleware"
	"github.com/yukikurage/promptvault-api/internal/services"
)

// ProjectHandler serves project endpoints. Routes under /:id run behind RequireProjectRole.
type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

// ListProjects returns all projects the user is a member of, with the user's role
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	memberships, err := h.projectService.ListProjectsForUser(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	projects := make([]dto.ProjectWithRoleDTO, len(memberships))
	for i, m := range memberships {
		projects[i] = dto.ToProjectWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"projects": projects,
	})
}

// CreateProject creates a new project owned by the caller
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateProjectRequest struct {
		Name        string `json:"name" binding:"required,max=255"`
		Slug        string `json:"slug" binding:"max=100"`
		Description string `json:"description"`
	}

	var req CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), services.CreateProjectInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		OwnerID:     userID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectDTO(*project))
}

// GetProject returns project details, members and the caller's role
func (h *ProjectHandler) GetProject(c *gin.Context) {
	project, _ := middleware.GetProject(c)
	member, _ := middleware.GetProjectMember(c)

	_, members, err := h.projectService.GetProjectWithMembers(c.Request.Context(), project.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDetailDTO(project, members, member.Role))
}

// UpdateProject updates the project's name or description
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	project, _ := middleware.GetProject(c)

	type UpdateProjectRequest struct {
		Name        *string `json:"name" binding:"omitempty,max=255"`
		Description *string `json:"description"`
	}

	var req UpdateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.projectService.UpdateProject(c.Request.Context(), project.ID, services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectDTO(*updated))
}

// DeleteProject deletes the project with everything in it
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	project, _ := middleware.GetProject(c)

	if err := h.projectService.DeleteProject(c.Request.Context(), project.ID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Project deleted successfully",
	})
}
