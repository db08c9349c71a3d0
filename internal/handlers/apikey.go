package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/promptvault-api/internal/dto"
	apierrors "github.com/yukikurage/promptvault-api/internal/errors"
	"github.com/yukikurage/promptvault-api/internal/services"
)

// APIKeyHandler serves the caller's own API keys
type APIKeyHandler struct {
	apiKeyService *services.APIKeyService
}

func NewAPIKeyHandler(apiKeyService *services.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{apiKeyService: apiKeyService}
}

// ListAPIKeys lists the caller's keys with the secret masked
func (h *APIKeyHandler) ListAPIKeys(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	keys, err := h.apiKeyService.ListAPIKeys(c.Request.Context(), userID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"api_keys": dto.ToAPIKeyDTOs(keys),
	})
}

// CreateAPIKey generates a key and returns its plaintext this one time
func (h *APIKeyHandler) CreateAPIKey(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	type CreateAPIKeyRequest struct {
		Name        string `json:"name" binding:"required,max=100"`
		Description string `json:"description" binding:"max=500"`
	}

	var req CreateAPIKeyRequest
	if !bindJSON(c, &req) {
		return
	}

	key, plaintext, err := h.apiKeyService.CreateAPIKey(c.Request.Context(), services.CreateAPIKeyInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreateAPIKeyResponse(*key, plaintext))
}

// DeleteAPIKey deletes one of the caller's keys
func (h *APIKeyHandler) DeleteAPIKey(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	keyID, ok := parseIDParam(c, "id", "API key ID")
	if !ok {
		return
	}

	if err := h.apiKeyService.DeleteAPIKey(c.Request.Context(), userID, keyID); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "API key deleted successfully",
	})
}
