package handlers

import (
	"net/http"

	"pfm-api/internal/dto"
	"pfm-api/internal/errors"
	"pfm-api/internal/fire"
	"pfm-api/internal/format"
	"pfm-api/internal/services"

	"github.com/labstack/echo/v4"
)

// FireHandler serves the financial independence calculator
type FireHandler struct {
	fireService services.FireServiceInterface
}

// NewFireHandler creates a new FIRE handler
func NewFireHandler(fireService services.FireServiceInterface) *FireHandler {
	return &FireHandler{fireService: fireService}
}

// projectionResponse adds display strings to a projection
type projectionResponse struct {
	*fire.Projection
	TargetFormatted           string `json:"target_formatted"`
	ProjectedBalanceFormatted string `json:"projected_balance_formatted"`
}

// monteCarloResponse adds a display string to a simulation result
type monteCarloResponse struct {
	*fire.MonteCarloResult
	SuccessFormatted string `json:"success_formatted"`
}

// GetData seeds the calculator from stored balances and settings
// @Summary FIRE calculator inputs
// @Tags FIRE
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.FireDataResponse
// @Router /fire/data [get]
func (h *FireHandler) GetData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	data, err := h.fireService.GetData(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, data)
}

// Project runs the deterministic projection
// @Summary Project years to financial independence
// @Description Percentages are whole numbers. A target that is never reached within 100 years reports reachable=false.
// @Tags FIRE
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ProjectionRequest true "Projection inputs"
// @Success 200 {object} fire.Projection
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or FIRE_001"
// @Router /fire/projection [post]
func (h *FireHandler) Project(c echo.Context) error {
	var req dto.ProjectionRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	projection, err := h.fireService.Project(&req)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, projectionResponse{
		Projection:                projection,
		TargetFormatted:           format.FormatCurrency(projection.Target),
		ProjectedBalanceFormatted: format.FormatCurrency(projection.ProjectedBalance),
	})
}

// MonteCarlo runs the stochastic simulation
// @Summary Monte Carlo success probability
// @Description Rates are fractions. Pass a seed for a reproducible run.
// @Tags FIRE
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.MonteCarloRequest true "Simulation inputs"
// @Success 200 {object} fire.MonteCarloResult
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or FIRE_001"
// @Router /fire/monte-carlo [post]
func (h *FireHandler) MonteCarlo(c echo.Context) error {
	var req dto.MonteCarloRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	result, err := h.fireService.MonteCarlo(c.Request().Context(), &req)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, monteCarloResponse{
		MonteCarloResult: result,
		SuccessFormatted: format.FormatPercent(result.SuccessProbability),
	})
}
