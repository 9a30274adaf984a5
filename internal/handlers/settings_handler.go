package handlers

import (
	"net/http"

	"pfm-api/internal/dto"
	"pfm-api/internal/errors"
	"pfm-api/internal/services"

	"github.com/labstack/echo/v4"
)

// SettingsHandler handles user preferences
type SettingsHandler struct {
	settingsService services.SettingsServiceInterface
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService services.SettingsServiceInterface) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings returns the user's settings, defaults when none were saved
// @Summary Get settings
// @Tags Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.UserSettings
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	settings, err := h.settingsService.Get(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, settings)
}

// UpdateSettings changes the given settings fields
// @Summary Update settings
// @Tags Settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Settings"
// @Success 200 {object} models.UserSettings
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or VALIDATION_004"
// @Router /settings [put]
func (h *SettingsHandler) UpdateSettings(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	settings, err := h.settingsService.Update(userID, &req)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, settings)
}
