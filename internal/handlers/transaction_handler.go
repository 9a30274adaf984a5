package handlers

import (
	"fmt"
	"net/http"

	"pfm-api/internal/dto"
	"pfm-api/internal/errors"
	"pfm-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TransactionHandler handles transaction import, listing and categorization
type TransactionHandler struct {
	transactionService    services.TransactionServiceInterface
	categorizationService services.CategorizationServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(
	transactionService services.TransactionServiceInterface,
	categorizationService services.CategorizationServiceInterface,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService:    transactionService,
		categorizationService: categorizationService,
	}
}

// ListTransactions returns the user's transactions, newest first
// @Summary List transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param month query string false "Restrict to a YYYY-MM month"
// @Success 200 {object} dto.TransactionListResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Invalid month"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002"
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.TransactionListQuery
	if err := c.Bind(&query); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(query); err != nil {
		return err
	}

	transactions, err := h.transactionService.List(userID, query.Month)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, transactions)
}

// ListMonths returns the months that have transactions, newest first
// @Summary List transaction months
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MonthsResponse
// @Router /transactions/months [get]
func (h *TransactionHandler) ListMonths(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	months, err := h.transactionService.Months(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MonthsResponse{Months: months})
}

// ImportTransactions normalizes and stores a batch of institution rows
// @Summary Import transactions
// @Description Rows use institution specific field names. Rows that cannot be normalized are reported as skipped; rows already imported are counted as duplicates.
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ImportTransactionsRequest true "Rows to import"
// @Success 200 {object} dto.ImportTransactionsResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Failure 422 {object} errors.ErrorResponse "TRANSACTION_002 - No row could be normalized"
// @Router /transactions/import [post]
func (h *TransactionHandler) ImportTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.ImportTransactionsRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if len(req.Rows) == 0 {
		return SendError(c, errors.TransactionEmptyImport)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	result, err := h.transactionService.Import(c.Request().Context(), userID, &req)
	if err != nil {
		return SendServiceError(c, err)
	}

	if len(result.Skipped) == result.Received {
		return SendError(c, errors.TransactionImportFailed,
			errors.WithDetails(fmt.Sprintf("none of the %d rows could be read, first: %s", result.Received, result.Skipped[0].Reason)))
	}

	return c.JSON(http.StatusOK, result)
}

// CategorizeTransaction assigns a category and learns keywords from the description
// @Summary Categorize a transaction
// @Tags Transactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.CategorizeRequest true "Category"
// @Success 200 {object} dto.CategorizeResponse
// @Failure 404 {object} errors.ErrorResponse "TRANSACTION_001 or CATEGORY_001"
// @Router /transactions/{id}/categorize [post]
func (h *TransactionHandler) CategorizeTransaction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	transactionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return sendInvalidID(c, "id")
	}

	var req dto.CategorizeRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	categoryID := uuid.MustParse(req.CategoryID)

	result, err := h.categorizationService.Categorize(c.Request().Context(), userID, transactionID, categoryID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// ApplyRules categorizes uncategorized transactions with the category regex rules
// @Summary Apply category rules
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ApplyRulesResponse
// @Router /transactions/apply-rules [post]
func (h *TransactionHandler) ApplyRules(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	result, err := h.categorizationService.ApplyRules(c.Request().Context(), userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

// GetSuggestion proposes a category for a description from learned keywords
// @Summary Suggest a category
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Param description query string true "Transaction description"
// @Success 200 {object} dto.SuggestionResponse
// @Router /transactions/suggestions [get]
func (h *TransactionHandler) GetSuggestion(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.SuggestionQuery
	if err := c.Bind(&query); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(query); err != nil {
		return err
	}

	suggestion, err := h.categorizationService.Suggest(userID, query.Description)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, suggestion)
}

// ClearTransactions deletes all of the user's transactions
// @Summary Clear transactions
// @Tags Transactions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ClearTransactionsResponse
// @Router /transactions [delete]
func (h *TransactionHandler) ClearTransactions(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	deleted, err := h.transactionService.Clear(c.Request().Context(), userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.ClearTransactionsResponse{Deleted: deleted})
}
