package handlers

import (
	"net/http"
	"time"

	"pfm-api/internal/dto"
	"pfm-api/internal/errors"
	"pfm-api/internal/ledger"
	"pfm-api/internal/services"

	"github.com/labstack/echo/v4"
)

// ChartHandler serves the chart series of the dashboard
type ChartHandler struct {
	chartService services.ChartServiceInterface
	now          func() time.Time
}

// NewChartHandler creates a new chart handler
func NewChartHandler(chartService services.ChartServiceInterface) *ChartHandler {
	return &ChartHandler{
		chartService: chartService,
		now:          time.Now,
	}
}

// MonthlySpending returns expense totals per category for a month
// @Summary Monthly spending by category
// @Tags Charts
// @Security BearerAuth
// @Produce json
// @Param month query string false "YYYY-MM, defaults to the current month"
// @Success 200 {object} dto.MonthlySpendingResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid month"
// @Router /charts/monthly-spending [get]
func (h *ChartHandler) MonthlySpending(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.MonthlySpendingQuery
	if err := c.Bind(&query); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(query); err != nil {
		return err
	}
	if query.Month == "" {
		query.Month = ledger.MonthKey(h.now())
	}

	spending, err := h.chartService.MonthlySpending(userID, query.Month)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, spending)
}

// CashFlow returns income and expenses for the trailing months
// @Summary Cash flow
// @Tags Charts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CashFlowResponse
// @Router /charts/cash-flow [get]
func (h *ChartHandler) CashFlow(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	points, err := h.chartService.CashFlow(userID, h.now())
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CashFlowResponse{Points: points})
}

// NetWorthHistory returns stored net worth snapshots, oldest first
// @Summary Net worth history
// @Tags Charts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.NetWorthHistoryResponse
// @Router /charts/net-worth [get]
func (h *ChartHandler) NetWorthHistory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	snapshots, err := h.chartService.NetWorthHistory(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NetWorthHistoryResponse{Snapshots: snapshots})
}

// TakeSnapshot records today's net worth from current balances
// @Summary Record a net worth snapshot
// @Tags Charts
// @Security BearerAuth
// @Produce json
// @Success 201 {object} models.NetWorthSnapshot
// @Router /charts/net-worth/snapshot [post]
func (h *ChartHandler) TakeSnapshot(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	snapshot, err := h.chartService.TakeSnapshot(userID, h.now())
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, snapshot)
}
