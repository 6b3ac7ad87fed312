package http

import (
	"errors"
	"net/http"

	"github.com/floresya/floresya/internal/settings/application"
	"github.com/floresya/floresya/internal/settings/domain"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/floresya/floresya/pkg/response"
	"github.com/gin-gonic/gin"
)

// SettingsHandler serves the public setting read and the admin writes.
type SettingsHandler struct {
	app *application.SettingsService
}

func NewSettingsHandler(app *application.SettingsService) *SettingsHandler {
	return &SettingsHandler{app: app}
}

func (h *SettingsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/settings/:key", h.GetSetting)
}

func (h *SettingsHandler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	settings := admin.Group("/settings")
	{
		settings.GET("", h.ListSettings)
		settings.PUT("/:key", h.SetSetting)
	}
}

func (h *SettingsHandler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	setting, err := h.app.Get(c.Request.Context(), key)
	if errors.Is(err, domain.ErrSettingNotFound) {
		response.ErrorWithStatus(c, http.StatusNotFound, "setting not found")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to get setting", "key", key, "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, setting)
}

func (h *SettingsHandler) ListSettings(c *gin.Context) {
	settings, err := h.app.List(c.Request.Context())
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, settings)
}

func (h *SettingsHandler) SetSetting(c *gin.Context) {
	var req struct {
		Value       string `json:"value" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	setting, err := h.app.Set(c.Request.Context(), c.Param("key"), req.Value, req.Description)
	if err != nil {
		logger.Error(c.Request.Context(), "Failed to set setting", "key", c.Param("key"), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error())
		return
	}
	response.Success(c, setting)
}
