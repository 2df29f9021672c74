package handler

import (
	appsettings "github.com/creatorhub/backend/internal/application/settings"
	"github.com/gin-gonic/gin"
)

// SettingsHandler handles platform settings API endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *appsettings.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *appsettings.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// List godoc
// @Summary      List platform settings
// @Description  Returns every stored setting. Admin only.
// @Tags         settings
// @Produce      json
// @Router       /admin/settings [get]
func (h *SettingsHandler) List(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	settings, err := h.settingsService.All(c.Request.Context(), actorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}

// UpdateSettingsRequest carries setting key/value pairs to store
type UpdateSettingsRequest struct {
	Values map[string]string `json:"values" binding:"required,min=1"`
}

// Update godoc
// @Summary      Update platform settings
// @Description  Validates and stores the given settings. Admin only.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Router       /admin/settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	actorID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.settingsService.Update(c.Request.Context(), actorID, req.Values, requestContext(c)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"updated": len(req.Values)})
}
