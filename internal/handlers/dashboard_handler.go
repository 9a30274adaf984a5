package handlers

import (
	"net/http"
	"time"

	"pfm-api/internal/errors"
	"pfm-api/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the bundle loaded on the dashboard's first render
type DashboardHandler struct {
	dashboardService services.DashboardServiceInterface
	now              func() time.Time
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService services.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		now:              time.Now,
	}
}

// GetInitialData returns accounts, transactions, categories, investments,
// monthly spending and the headline KPIs in one response
// @Summary Dashboard initial data
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.InitialDataResponse
// @Router /data/initial [get]
func (h *DashboardHandler) GetInitialData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	data, err := h.dashboardService.InitialData(userID, h.now())
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, data)
}
