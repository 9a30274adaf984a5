package errors

import (
	"fmt"
	"net/http"
	"sort"
)

// ErrorResponse is the body of every API error
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
	TraceID string   `json:"trace_id"`
}

// ErrorOption customizes an ErrorResponse
type ErrorOption func(*ErrorResponse)

// WithDetails replaces the detail messages
func WithDetails(details ...string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Details = details
	}
}

// WithMessage overrides the default message for the code
func WithMessage(message string) ErrorOption {
	return func(er *ErrorResponse) {
		er.Error.Message = message
	}
}

// NewErrorResponse builds the response for code with its default message
func NewErrorResponse(code ErrorCode, traceID string, opts ...ErrorOption) *ErrorResponse {
	response := &ErrorResponse{
		Error: ErrorDetail{
			Code:    string(code),
			Message: GetErrorMessage(code),
			Details: []string{},
			TraceID: traceID,
		},
	}
	for _, opt := range opts {
		opt(response)
	}
	return response
}

// NewValidationError renders field errors as "field: message" details,
// sorted by field so responses are stable
func NewValidationError(fieldErrors map[string]string, traceID string) *ErrorResponse {
	fields := make([]string, 0, len(fieldErrors))
	for field := range fieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	details := make([]string, 0, len(fields))
	for _, field := range fields {
		details = append(details, fmt.Sprintf("%s: %s", field, fieldErrors[field]))
	}
	return NewErrorResponse(ValidationGeneral, traceID, WithDetails(details...))
}

// WrapSystemError hides err behind SYSTEM_001. err is handed back so the
// caller can log it.
func WrapSystemError(err error, traceID string) (*ErrorResponse, error) {
	return NewErrorResponse(SystemInternalError, traceID), err
}

var httpStatuses = map[int][]ErrorCode{
	http.StatusBadRequest: {
		ValidationGeneral, ValidationRequiredField, ValidationInvalidFormat,
		ValidationOutOfRange, ValidationInvalidEmail, ValidationInvalidMonth,
		ValidationInvalidDate, AccountInvalidType, AccountInvalidData,
		TransactionEmptyImport, RuleInvalidPattern, InvestmentInvalidData,
		QuoteTooManySymbols, FireInvalidParameters, WorkspaceUnknownAction,
		WorkspaceInvalidPayload, AuthWeakPassword,
	},
	http.StatusUnauthorized: {
		AuthInvalidCredentials, AuthMissingToken, AuthExpiredToken, AuthInvalidTokenFormat,
	},
	http.StatusForbidden: {AuthInsufficientPermission, AuthAccountLocked},
	http.StatusNotFound: {
		AccountNotFound, TransactionNotFound, CategoryNotFound, InvestmentNotFound, SystemNotFound,
	},
	http.StatusConflict:            {AuthUserAlreadyExists, CategoryAlreadyExists, RuleDuplicate},
	http.StatusUnprocessableEntity: {TransactionImportFailed},
	http.StatusTooManyRequests:     {SystemRateLimitExceeded},
	http.StatusServiceUnavailable:  {SystemServiceUnavailable, QuoteFeedUnavailable},
}

var statusByCode = func() map[ErrorCode]int {
	m := make(map[ErrorCode]int)
	for status, codes := range httpStatuses {
		for _, code := range codes {
			m[code] = status
		}
	}
	return m
}()

// GetHTTPStatus returns the status for code. Codes without an entry,
// including the SYSTEM_* internal errors, are 500.
func GetHTTPStatus(code ErrorCode) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// GetHTTPStatus returns the status for the response's code
func (er *ErrorResponse) GetHTTPStatus() int {
	return GetHTTPStatus(ErrorCode(er.Error.Code))
}
