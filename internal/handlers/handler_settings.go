package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/waqf_ledger/internal/core/ports/services"
	"github.com/SscSPs/waqf_ledger/internal/dto"
	"github.com/SscSPs/waqf_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type settingsHandler struct {
	settings portssvc.SettingsSvcFacade
}

func registerSettingsRoutes(rg *gin.RouterGroup, settings portssvc.SettingsSvcFacade) {
	h := &settingsHandler{settings: settings}

	group := rg.Group("/settings")
	{
		group.POST("", h.createSettings)
		group.GET("", h.listSettings)
		group.GET("/active", h.getActiveSettings)
		group.GET("/:id", h.getSettings)
	}
}

// createSettings godoc
// @Summary Create a new distribution settings version
// @Description The new version becomes active; earlier versions stay readable for audit.
// @Tags settings
// @Accept  json
// @Produce  json
// @Param   settings body dto.CreateSettingsRequest true "Percentages and distribution rule"
// @Success 201 {object} domain.DistributionSettings
// @Failure 403 {object} errorResponse "Role may not manage settings"
// @Failure 422 {object} errorResponse "Percentages out of range or above the deduction ceiling"
// @Security BearerAuth
// @Router /settings [post]
func (h *settingsHandler) createSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err, "CreateSettings")
		return
	}

	s, err := h.settings.CreateSettings(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err, "CreateSettings")
		return
	}

	logger.Info("Settings version created", slog.String("settings_id", s.SettingsID), slog.Int("version", s.Version))
	c.JSON(http.StatusCreated, s)
}

// getActiveSettings godoc
// @Summary Get the active settings version
// @Tags settings
// @Produce  json
// @Success 200 {object} domain.DistributionSettings
// @Failure 404 {object} errorResponse "No active settings"
// @Security BearerAuth
// @Router /settings/active [get]
func (h *settingsHandler) getActiveSettings(c *gin.Context) {
	s, err := h.settings.GetActiveSettings(c.Request.Context())
	if err != nil {
		respondError(c, err, "GetActiveSettings")
		return
	}
	c.JSON(http.StatusOK, s)
}

// getSettings godoc
// @Summary Get a settings version
// @Tags settings
// @Produce  json
// @Param   id path string true "Settings ID"
// @Success 200 {object} domain.DistributionSettings
// @Failure 404 {object} errorResponse "Settings not found"
// @Security BearerAuth
// @Router /settings/{id} [get]
func (h *settingsHandler) getSettings(c *gin.Context) {
	s, err := h.settings.GetSettings(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "GetSettings")
		return
	}
	c.JSON(http.StatusOK, s)
}

// listSettings godoc
// @Summary List all settings versions
// @Tags settings
// @Produce  json
// @Success 200 {array} domain.DistributionSettings
// @Security BearerAuth
// @Router /settings [get]
func (h *settingsHandler) listSettings(c *gin.Context) {
	list, err := h.settings.ListSettings(c.Request.Context())
	if err != nil {
		respondError(c, err, "ListSettings")
		return
	}
	c.JSON(http.StatusOK, list)
}
