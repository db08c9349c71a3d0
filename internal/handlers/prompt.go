package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/promptvault-api/internal/dto"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/middleware"
	"github.com/yukikurage/promptvault-api/internal/services"
	"github.com/yukikurage/promptvault-api/internal/utils"
)

// PromptHandler serves both the project-scoped prompt routes and the
// slug-addressed /api/prompts routes used by programmatic clients.
type PromptHandler struct {
	promptService *services.PromptService
}

// NewPromptHandler creates a new PromptHandler
func NewPromptHandler(promptService *services.PromptService) *PromptHandler {
	return &PromptHandler{promptService: promptService}
}

// ListPrompts lists a page of the project's prompts with their latest version numbers
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	project, _ := middleware.GetProject(c)
	params := utils.GetPaginationParams(c)

	summaries, total, err := h.promptService.ListPrompts(c.Request.Context(), project.ID, params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	prompts := make([]dto.PromptDTO, len(summaries))
	for i, s := range summaries {
		prompts[i] = dto.ToPromptDTO(s.Prompt, s.LatestVersion)
	}

	c.JSON(http.StatusOK, dto.PromptListResponse{
		Prompts:    prompts,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalCount: total,
	})
}

// CreatePrompt creates a prompt; optional content becomes version 1
func (h *PromptHandler) CreatePrompt(c *gin.Context) {
	project, _ := middleware.GetProject(c)
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreatePromptRequest struct {
		Slug     string `json:"slug" binding:"required,max=100"`
		Title    string `json:"title" binding:"max=255"`
		Category string `json:"category" binding:"max=100"`
		Content  string `json:"content"`
		Message  string `json:"message" binding:"max=500"`
	}

	var req CreatePromptRequest
	if !bindJSON(c, &req) {
		return
	}

	prompt, version, err := h.promptService.CreatePrompt(c.Request.Context(), services.CreatePromptInput{
		ProjectID: project.ID,
		Slug:      req.Slug,
		Title:     req.Title,
		Category:  req.Category,
		Content:   req.Content,
		Message:   req.Message,
		AuthorID:  userID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	latest := 0
	response := gin.H{}
	if version != nil {
		latest = version.Version
		response["version"] = dto.ToPromptVersionDTO(*version, *prompt, project)
	}
	response["prompt"] = dto.ToPromptDTO(*prompt, latest)

	c.JSON(http.StatusCreated, response)
}

// UpdatePrompt changes a prompt's title or category
func (h *PromptHandler) UpdatePrompt(c *gin.Context) {
	project, _ := middleware.GetProject(c)

	promptID, ok := parseIDParam(c, "promptId", "prompt ID")
	if !ok {
		return
	}

	type UpdatePromptRequest struct {
		Title    *string `json:"title" binding:"omitempty,max=255"`
		Category *string `json:"category" binding:"omitempty,max=100"`
	}

	var req UpdatePromptRequest
	if !bindJSON(c, &req) {
		return
	}

	prompt, latest, err := h.promptService.UpdatePrompt(c.Request.Context(), project.ID, promptID, services.UpdatePromptInput{
		Title:    req.Title,
		Category: req.Category,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPromptDTO(*prompt, latest))
}

// CreateVersion appends a version to the prompt named by :slug, creating the prompt if needed
func (h *PromptHandler) CreateVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateVersionRequest struct {
		Content     string `json:"content" binding:"required"`
		Message     string `json:"message" binding:"max=500"`
		ProjectSlug string `json:"projectSlug" binding:"required"`
	}

	var req CreateVersionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.promptService.CreateVersion(c.Request.Context(), services.CreateVersionInput{
		ProjectSlug: req.ProjectSlug,
		PromptSlug:  c.Param("slug"),
		Content:     req.Content,
		Message:     req.Message,
		AuthorID:    userID,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPromptVersionDTO(result.Version, result.Prompt, result.Project))
}

// GetVersion returns the latest version, or the one named by ?version=
func (h *PromptHandler) GetVersion(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	input := services.GetVersionInput{
		ProjectSlug: c.Query("projectSlug"),
		PromptSlug:  c.Param("slug"),
		UserID:      userID,
	}

	if raw, present := c.GetQuery("version"); present {
		number, err := strconv.Atoi(raw)
		if err != nil {
			apierrors.Respond(c, services.ErrInvalidVersion)
			return
		}
		input.Version = &number
	}

	result, err := h.promptService.GetVersion(c.Request.Context(), input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPromptVersionDTO(result.Version, result.Prompt, result.Project))
}

// ListVersions returns every version of the prompt, newest first
func (h *PromptHandler) ListVersions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	project, prompt, versions, err := h.promptService.ListVersions(c.Request.Context(), c.Query("projectSlug"), c.Param("slug"), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPromptHistoryResponse(*prompt, *project, versions))
}
