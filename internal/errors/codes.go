package errors

// ErrorCode represents a standardized error code used throughout the API
type ErrorCode string

// Authentication error codes (AUTH_*)
const (
	AuthInvalidCredentials     ErrorCode = "AUTH_001"
	AuthMissingToken           ErrorCode = "AUTH_002"
	AuthExpiredToken           ErrorCode = "AUTH_003"
	AuthInvalidTokenFormat     ErrorCode = "AUTH_004"
	AuthInsufficientPermission ErrorCode = "AUTH_005"
	AuthAccountLocked          ErrorCode = "AUTH_006"
	AuthUserAlreadyExists      ErrorCode = "AUTH_007"
	AuthWeakPassword           ErrorCode = "AUTH_008"
)

// Validation error codes (VALIDATION_*)
const (
	ValidationGeneral       ErrorCode = "VALIDATION_001"
	ValidationRequiredField ErrorCode = "VALIDATION_002"
	ValidationInvalidFormat ErrorCode = "VALIDATION_003"
	ValidationOutOfRange    ErrorCode = "VALIDATION_004"
	ValidationInvalidEmail  ErrorCode = "VALIDATION_005"
	ValidationInvalidMonth  ErrorCode = "VALIDATION_006"
	ValidationInvalidDate   ErrorCode = "VALIDATION_007"
)

// Account error codes (ACCOUNT_*)
const (
	AccountNotFound    ErrorCode = "ACCOUNT_001"
	AccountInvalidType ErrorCode = "ACCOUNT_002"
	AccountInvalidData ErrorCode = "ACCOUNT_003"
)

// Transaction error codes (TRANSACTION_*)
const (
	TransactionNotFound     ErrorCode = "TRANSACTION_001"
	TransactionImportFailed ErrorCode = "TRANSACTION_002"
	TransactionEmptyImport  ErrorCode = "TRANSACTION_003"
)

// Category and rule error codes (CATEGORY_*, RULE_*)
const (
	CategoryNotFound      ErrorCode = "CATEGORY_001"
	CategoryAlreadyExists ErrorCode = "CATEGORY_002"
	RuleInvalidPattern    ErrorCode = "RULE_001"
	RuleDuplicate         ErrorCode = "RULE_002"
)

// Investment and quote error codes (INVESTMENT_*, QUOTE_*)
const (
	InvestmentNotFound    ErrorCode = "INVESTMENT_001"
	InvestmentInvalidData ErrorCode = "INVESTMENT_002"
	QuoteTooManySymbols   ErrorCode = "QUOTE_001"
	QuoteFeedUnavailable  ErrorCode = "QUOTE_002"
)

// Projection and workspace error codes (FIRE_*, WORKSPACE_*)
const (
	FireInvalidParameters   ErrorCode = "FIRE_001"
	WorkspaceUnknownAction  ErrorCode = "WORKSPACE_001"
	WorkspaceInvalidPayload ErrorCode = "WORKSPACE_002"
)

// System error codes (SYSTEM_*)
const (
	SystemInternalError      ErrorCode = "SYSTEM_001"
	SystemDatabaseError      ErrorCode = "SYSTEM_002"
	SystemServiceUnavailable ErrorCode = "SYSTEM_003"
	SystemConfigurationError ErrorCode = "SYSTEM_004"
	SystemUnexpectedError    ErrorCode = "SYSTEM_005"
	SystemRateLimitExceeded  ErrorCode = "SYSTEM_006"
	SystemNotFound           ErrorCode = "SYSTEM_007"
)

// errorMessages maps error codes to their default human-readable messages
var errorMessages = map[ErrorCode]string{
	// Authentication errors
	AuthInvalidCredentials:     "Invalid email or password",
	AuthMissingToken:           "Authorization token is required",
	AuthExpiredToken:           "Authorization token has expired",
	AuthInvalidTokenFormat:     "Invalid authorization token format",
	AuthInsufficientPermission: "Insufficient permissions to access this resource",
	AuthAccountLocked:          "Account is locked or disabled",
	AuthUserAlreadyExists:      "An account with this email already exists",
	AuthWeakPassword:           "Password does not meet the strength requirements",

	// Validation errors
	ValidationGeneral:       "Validation failed",
	ValidationRequiredField: "Required field is missing",
	ValidationInvalidFormat: "Invalid field format",
	ValidationOutOfRange:    "Field value is out of allowed range",
	ValidationInvalidEmail:  "Invalid email address format",
	ValidationInvalidMonth:  "Invalid month, use YYYY-MM",
	ValidationInvalidDate:   "Invalid date format or range",

	// Account errors
	AccountNotFound:    "Account not found",
	AccountInvalidType: "Account type must be cash, investment or debt",
	AccountInvalidData: "Invalid account data",

	// Transaction errors
	TransactionNotFound:     "Transaction not found",
	TransactionImportFailed: "Transaction import failed",
	TransactionEmptyImport:  "No transactions to import",

	// Category and rule errors
	CategoryNotFound:      "Category not found",
	CategoryAlreadyExists: "A category with this name already exists",
	RuleInvalidPattern:    "Rule pattern is not an allowed regular expression",
	RuleDuplicate:         "Category already has this rule",

	// Investment and quote errors
	InvestmentNotFound:    "Investment not found",
	InvestmentInvalidData: "Invalid investment data",
	QuoteTooManySymbols:   "Too many symbols requested",
	QuoteFeedUnavailable:  "Quote feed is temporarily unavailable",

	// Projection and workspace errors
	FireInvalidParameters:   "Invalid projection parameters",
	WorkspaceUnknownAction:  "Unknown workspace action",
	WorkspaceInvalidPayload: "Invalid workspace action payload",

	// System errors
	SystemInternalError:      "An unexpected error occurred. Please contact support with trace ID",
	SystemDatabaseError:      "Database connection error",
	SystemServiceUnavailable: "Service temporarily unavailable",
	SystemConfigurationError: "System configuration error",
	SystemUnexpectedError:    "An unexpected error occurred",
	SystemRateLimitExceeded:  "Rate limit exceeded. Please try again later",
	SystemNotFound:           "Resource not found",
}

// GetErrorMessage returns the default message for a given error code
// If the error code is not found, it returns a generic error message
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}
	return "An error occurred"
}

// IsValidErrorCode checks if the provided error code is a valid registered code
func IsValidErrorCode(code ErrorCode) bool {
	_, ok := errorMessages[code]
	return ok
}
