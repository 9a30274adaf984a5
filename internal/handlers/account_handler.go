package handlers

import (
	"net/http"

	"pfm-api/internal/dto"
	"pfm-api/internal/errors"
	"pfm-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AccountHandler handles balance account requests
type AccountHandler struct {
	accountService services.AccountServiceInterface
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(accountService services.AccountServiceInterface) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ListAccounts returns the user's accounts with cash, investment and debt totals
// @Summary List accounts
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.AccountListResponse
// @Failure 401 {object} errors.ErrorResponse "AUTH_002 - Missing or invalid authentication"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001 - Internal server error"
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accounts, err := h.accountService.ListAccounts(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, accounts)
}

// CreateAccount records a new balance account
// @Summary Create an account
// @Description Account types are cash, investment or debt. Aliases such as checking, brokerage or credit are accepted.
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateAccountRequest true "Account details"
// @Success 201 {object} models.Account
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or ACCOUNT_002"
// @Failure 401 {object} errors.ErrorResponse "AUTH_002"
// @Failure 500 {object} errors.ErrorResponse "SYSTEM_001"
// @Router /accounts [post]
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateAccountRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	account, err := h.accountService.CreateAccount(userID, &req)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, account)
}

// UpdateBalance sets the balance of an account
// @Summary Update account balance
// @Tags Accounts
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Account ID"
// @Param request body dto.UpdateBalanceRequest true "New balance"
// @Success 200 {object} models.Account
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or VALIDATION_003"
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /accounts/{id}/balance [put]
func (h *AccountHandler) UpdateBalance(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return sendInvalidID(c, "id")
	}

	var req dto.UpdateBalanceRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	balance, err := decimal.NewFromString(req.Balance)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("balance: must be a decimal amount"))
	}

	account, err := h.accountService.UpdateBalance(userID, accountID, balance)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, account)
}

// DeleteAccount removes an account
// @Summary Delete an account
// @Tags Accounts
// @Security BearerAuth
// @Produce json
// @Param id path string true "Account ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} errors.ErrorResponse "ACCOUNT_001 - Account not found"
// @Router /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return sendInvalidID(c, "id")
	}

	if err := h.accountService.DeleteAccount(userID, accountID); err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Account deleted"})
}
