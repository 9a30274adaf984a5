package handlers

import (
	stderrors "errors"
	"log/slog"
	"net/http"

	"pfm-api/internal/errors"
	"pfm-api/internal/fire"
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"
	"pfm-api/internal/rules"
	"pfm-api/internal/services"
	"pfm-api/internal/workspace"

	"github.com/labstack/echo/v4"
)

// STANDARDIZED ERROR HANDLING PATTERNS
//
// Handlers answer errors through three helpers:
//
// 1. SendError - client and business rule errors (4xx)
//    - SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    - SendError(c, errors.CategoryNotFound)
//
// 2. SendServiceError - errors returned by the service layer. Known sentinel
//    errors map to their code; anything else becomes SendSystemError.
//
// 3. SendSystemError - internal errors (500). The cause is never exposed.
//
// Do not return echo.NewHTTPError or write error bodies with c.JSON directly.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty" swaggertype:"object"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty" swaggertype:"object"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// serviceErrorCodes maps service sentinel errors to API codes, most specific first
var serviceErrorCodes = []struct {
	err  error
	code errors.ErrorCode
}{
	{services.ErrUserAlreadyExists, errors.AuthUserAlreadyExists},
	{services.ErrInvalidCredentials, errors.AuthInvalidCredentials},
	{services.ErrAccountLocked, errors.AuthAccountLocked},
	{repositories.ErrUserNotFound, errors.SystemNotFound},
	{services.ErrPasswordEmpty, errors.AuthWeakPassword},
	{services.ErrPasswordTooShort, errors.AuthWeakPassword},
	{services.ErrPasswordTooLong, errors.AuthWeakPassword},
	{services.ErrPasswordNoUppercase, errors.AuthWeakPassword},
	{services.ErrPasswordNoLowercase, errors.AuthWeakPassword},
	{services.ErrPasswordNoNumber, errors.AuthWeakPassword},
	{services.ErrPasswordNoSpecial, errors.AuthWeakPassword},

	{services.ErrAccountNotFound, errors.AccountNotFound},
	{models.ErrInvalidAccountType, errors.AccountInvalidType},
	{models.ErrInvalidBalance, errors.AccountInvalidData},
	{services.ErrInvalidAmount, errors.ValidationOutOfRange},

	{services.ErrTransactionNotFound, errors.TransactionNotFound},
	{ledger.ErrInvalidMonth, errors.ValidationInvalidMonth},

	{services.ErrCategoryNotFound, errors.CategoryNotFound},
	{services.ErrCategoryAlreadyExists, errors.CategoryAlreadyExists},
	{services.ErrDuplicateRule, errors.RuleDuplicate},
	{models.ErrCategoryNameRequired, errors.ValidationRequiredField},
	{rules.ErrEmptyPattern, errors.RuleInvalidPattern},
	{rules.ErrPatternTooLong, errors.RuleInvalidPattern},
	{rules.ErrInvalidPattern, errors.RuleInvalidPattern},
	{rules.ErrNestedQuantifier, errors.RuleInvalidPattern},
	{rules.ErrPatternTooComplex, errors.RuleInvalidPattern},

	{services.ErrInvestmentNotFound, errors.InvestmentNotFound},
	{models.ErrInvalidSymbol, errors.InvestmentInvalidData},
	{models.ErrInvalidShares, errors.InvestmentInvalidData},
	{models.ErrInvalidPrice, errors.InvestmentInvalidData},
	{services.ErrTooManySymbols, errors.QuoteTooManySymbols},
	{services.ErrQuoteFeedUnavailable, errors.QuoteFeedUnavailable},

	{fire.ErrInvalidWithdrawalRate, errors.FireInvalidParameters},
	{fire.ErrInvalidSimulations, errors.FireInvalidParameters},
	{fire.ErrInvalidYears, errors.FireInvalidParameters},
	{fire.ErrInvalidVolatility, errors.FireInvalidParameters},
	{services.ErrInvalidWithdrawalRate, errors.ValidationOutOfRange},

	{workspace.ErrUnknownAction, errors.WorkspaceUnknownAction},
	{workspace.ErrInvalidPayload, errors.WorkspaceInvalidPayload},
	{workspace.ErrUnknownBalance, errors.WorkspaceInvalidPayload},
	{workspace.ErrEmptyCategory, errors.WorkspaceInvalidPayload},
	{workspace.ErrEmptySymbol, errors.WorkspaceInvalidPayload},
	{workspace.ErrNegativeAmount, errors.WorkspaceInvalidPayload},
}

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError wraps a system error with generic message
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, cause := errors.WrapSystemError(err, traceID)
	slog.ErrorContext(c.Request().Context(), "internal error",
		"trace_id", traceID,
		"path", c.Request().URL.Path,
		"error", cause,
	)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

// SendServiceError answers a service layer error. Bad request errors carry the
// sentinel message as detail so clients can tell which rule failed.
func SendServiceError(c echo.Context, err error) error {
	for _, entry := range serviceErrorCodes {
		if !stderrors.Is(err, entry.err) {
			continue
		}
		if errors.GetHTTPStatus(entry.code) == http.StatusBadRequest {
			return SendError(c, entry.code, errors.WithDetails(entry.err.Error()))
		}
		return SendError(c, entry.code)
	}
	return SendSystemError(c, err)
}
