package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/promptvault-api/internal/dto"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/middleware"
	"github.com/yukikurage/promptvault-api/internal/models"
	"github.com/yukikurage/promptvault-api/internal/services"
)

// MemberHandler serves /api/projects/:id/members
type MemberHandler struct {
	projectService *services.ProjectService
}

func NewMemberHandler(projectService *services.ProjectService) *MemberHandler {
	return &MemberHandler{projectService: projectService}
}

// ListMembers lists the members of the project
func (h *MemberHandler) ListMembers(c *gin.Context) {
	project, _ := middleware.GetProject(c)

	members, err := h.projectService.ListMembers(c.Request.Context(), project.ID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members": dto.ToProjectMemberDTOs(members),
	})
}

// InviteMember adds an existing user, found by email, to the project
func (h *MemberHandler) InviteMember(c *gin.Context) {
	project, _ := middleware.GetProject(c)

	type InviteMemberRequest struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required,oneof=viewer editor admin"`
	}

	var req InviteMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.projectService.InviteMember(c.Request.Context(), project.ID, services.InviteMemberInput{
		Email: req.Email,
		Role:  models.ProjectRole(req.Role),
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectMemberDTO(*member))
}

// UpdateMemberRole changes the role of a member
func (h *MemberHandler) UpdateMemberRole(c *gin.Context) {
	project, _ := middleware.GetProject(c)

	userID, ok := parseIDParam(c, "userId", "user ID")
	if !ok {
		return
	}

	type UpdateMemberRoleRequest struct {
		Role string `json:"role" binding:"required,oneof=viewer editor admin"`
	}

	var req UpdateMemberRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.projectService.UpdateMemberRole(c.Request.Context(), project.ID, userID, models.ProjectRole(req.Role))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project_id": member.ProjectID,
		"user_id":    member.UserID,
		"role":       member.Role,
	})
}

// RemoveMember removes a member from the project
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	project, _ := middleware.GetProject(c)

	userID, ok := parseIDParam(c, "userId", "user ID")
	if !ok {
		return
	}

	if err := h.projectService.RemoveMember(c.Request.Context(), project.ID, userID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}
