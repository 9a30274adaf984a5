package handlers

import (
	"net/http"

	"pfm-api/internal/dto"
	"pfm-api/internal/errors"
	"pfm-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// InvestmentHandler handles investment positions and fee analysis
type InvestmentHandler struct {
	investmentService services.InvestmentServiceInterface
}

// NewInvestmentHandler creates a new investment handler
func NewInvestmentHandler(investmentService services.InvestmentServiceInterface) *InvestmentHandler {
	return &InvestmentHandler{investmentService: investmentService}
}

// ListInvestments returns positions with their total cost basis
// @Summary List investments
// @Tags Investments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.InvestmentListResponse
// @Router /investments [get]
func (h *InvestmentHandler) ListInvestments(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	investments, err := h.investmentService.List(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, investments)
}

// CreateInvestment records a position
// @Summary Create an investment
// @Tags Investments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateInvestmentRequest true "Position"
// @Success 201 {object} models.Investment
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or INVESTMENT_002"
// @Router /investments [post]
func (h *InvestmentHandler) CreateInvestment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	investment, err := h.investmentService.Create(userID, &req)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, investment)
}

// UpdateInvestment changes the shares, price or date of a position
// @Summary Update an investment
// @Tags Investments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Investment ID"
// @Param request body dto.UpdateInvestmentRequest true "Changes"
// @Success 200 {object} models.Investment
// @Failure 404 {object} errors.ErrorResponse "INVESTMENT_001"
// @Router /investments/{id} [put]
func (h *InvestmentHandler) UpdateInvestment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	investmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return sendInvalidID(c, "id")
	}

	var req dto.UpdateInvestmentRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	investment, err := h.investmentService.Update(userID, investmentID, &req)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, investment)
}

// DeleteInvestment removes a position
// @Summary Delete an investment
// @Tags Investments
// @Security BearerAuth
// @Produce json
// @Param id path string true "Investment ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} errors.ErrorResponse "INVESTMENT_001"
// @Router /investments/{id} [delete]
func (h *InvestmentHandler) DeleteInvestment(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	investmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return sendInvalidID(c, "id")
	}

	if err := h.investmentService.Delete(userID, investmentID); err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Investment deleted"})
}

// FeeAnalysis reports expense ratios and yearly fees per holding
// @Summary Portfolio fee analysis
// @Tags Investments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.FeeAnalysisResponse
// @Router /investments/fees [get]
func (h *InvestmentHandler) FeeAnalysis(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	analysis, err := h.investmentService.FeeAnalysis(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, analysis)
}
