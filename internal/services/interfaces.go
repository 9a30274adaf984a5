package services

import (
	"context"
	"time"

	"pfm-api/internal/dto"
	"pfm-api/internal/fire"
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"
	"pfm-api/internal/rules"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuthServiceInterface defines the contract for authentication operations
type AuthServiceInterface interface {
	Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error)
	Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error)
	Logout(accessToken, ipAddress, userAgent string) error
	IsTokenBlacklisted(jti string) (bool, error)
	GetProfile(userID uuid.UUID) (*models.User, error)
}

// TokenServiceInterface defines the contract for session token operations
type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.SessionClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
	GetJTI(tokenString string) (string, error)
	GetTokenExpiry(tokenString string) (time.Time, error)
}

// PasswordServiceInterface defines the contract for password hashing and policy
type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
	PasswordStrength(password string) int
}

// AccountServiceInterface defines the contract for balance accounts
type AccountServiceInterface interface {
	CreateAccount(userID uuid.UUID, req *dto.CreateAccountRequest) (*models.Account, error)
	ListAccounts(userID uuid.UUID) (*dto.AccountListResponse, error)
	UpdateBalance(userID, accountID uuid.UUID, balance decimal.Decimal) (*models.Account, error)
	DeleteAccount(userID, accountID uuid.UUID) error
	GetBalances(userID uuid.UUID) (ledger.Balances, error)
}

// TransactionServiceInterface defines the contract for importing and listing transactions
type TransactionServiceInterface interface {
	Import(ctx context.Context, userID uuid.UUID, req *dto.ImportTransactionsRequest) (*dto.ImportTransactionsResponse, error)
	List(userID uuid.UUID, month string) (*dto.TransactionListResponse, error)
	Months(userID uuid.UUID) ([]string, error)
	Clear(ctx context.Context, userID uuid.UUID) (int64, error)
}

// CategorizationServiceInterface defines the contract for categories, regex
// rules and keyword learning
type CategorizationServiceInterface interface {
	CreateCategory(userID uuid.UUID, req *dto.CreateCategoryRequest) (*models.Category, error)
	ListCategories(userID uuid.UUID) ([]models.Category, error)
	AddRule(userID, categoryID uuid.UUID, pattern string) (*models.Category, error)
	DeleteCategory(userID, categoryID uuid.UUID) error
	ApplyRules(ctx context.Context, userID uuid.UUID) (*dto.ApplyRulesResponse, error)
	Categorize(ctx context.Context, userID, transactionID, categoryID uuid.UUID) (*dto.CategorizeResponse, error)
	Suggest(userID uuid.UUID, description string) (*dto.SuggestionResponse, error)
	DefaultCategory(description string) (string, bool)
}

// ChartServiceInterface defines the contract for chart series
type ChartServiceInterface interface {
	MonthlySpending(userID uuid.UUID, month string) (*dto.MonthlySpendingResponse, error)
	CashFlow(userID uuid.UUID, now time.Time) ([]ledger.CashFlowPoint, error)
	NetWorthHistory(userID uuid.UUID) ([]models.NetWorthSnapshot, error)
	TakeSnapshot(userID uuid.UUID, at time.Time) (*models.NetWorthSnapshot, error)
}

// FireServiceInterface defines the contract for financial independence projections
type FireServiceInterface interface {
	GetData(userID uuid.UUID) (*dto.FireDataResponse, error)
	Project(req *dto.ProjectionRequest) (*fire.Projection, error)
	MonteCarlo(ctx context.Context, req *dto.MonteCarloRequest) (*fire.MonteCarloResult, error)
}

// InvestmentServiceInterface defines the contract for investment positions
type InvestmentServiceInterface interface {
	Create(userID uuid.UUID, req *dto.CreateInvestmentRequest) (*models.Investment, error)
	List(userID uuid.UUID) (*dto.InvestmentListResponse, error)
	Update(userID, investmentID uuid.UUID, req *dto.UpdateInvestmentRequest) (*models.Investment, error)
	Delete(userID, investmentID uuid.UUID) error
	FeeAnalysis(userID uuid.UUID) (*dto.FeeAnalysisResponse, error)
}

// SettingsServiceInterface defines the contract for user settings
type SettingsServiceInterface interface {
	Get(userID uuid.UUID) (*models.UserSettings, error)
	Update(userID uuid.UUID, req *dto.UpdateSettingsRequest) (*models.UserSettings, error)
}

// DashboardServiceInterface defines the contract for the dashboard bundle
type DashboardServiceInterface interface {
	InitialData(userID uuid.UUID, now time.Time) (*dto.InitialDataResponse, error)
}

// QuoteServiceInterface defines the contract for the market quote feed
type QuoteServiceInterface interface {
	GetQuotes(ctx context.Context, symbols []string) (map[string]float64, error)
}

// QuoteCacheInterface stores recent quotes
type QuoteCacheInterface interface {
	Get(symbol string) (dto.Quote, bool)
	Set(quote dto.Quote, ttl time.Duration)
}

// WorkspaceServiceInterface defines the contract for persisted workspaces
type WorkspaceServiceInterface interface {
	Get(userID uuid.UUID) (*dto.WorkspaceResponse, error)
	Dispatch(ctx context.Context, userID uuid.UUID, payload []byte) (*dto.WorkspaceResponse, error)
	Export(userID uuid.UUID) ([]byte, error)
	Import(ctx context.Context, userID uuid.UUID, data []byte) (*dto.WorkspaceResponse, error)
	Reset(ctx context.Context, userID uuid.UUID) error
}

// AuditServiceInterface records user actions in the audit trail
type AuditServiceInterface interface {
	Record(userID uuid.UUID, action, resource, resourceID string, metadata map[string]interface{})
	GetUserActivity(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
}

// DemoGeneratorInterface produces synthetic transaction history
type DemoGeneratorInterface interface {
	GenerateRows(start, end time.Time) []ledger.RawRow
	GenerateCategories() []models.Category
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type AuditLoggerInterface interface {
	LogImport(ctx context.Context, userID, accountID uuid.UUID, received int, imported, duplicates int64, skipped int)
	LogRulesApplied(ctx context.Context, userID uuid.UUID, assignments []rules.Assignment)
	LogManualCategorization(ctx context.Context, userID, transactionID, categoryID uuid.UUID, keywords []string)
	LogTransactionsCleared(ctx context.Context, userID uuid.UUID, deleted int64)
	LogWorkspaceAction(ctx context.Context, userID uuid.UUID, action string, version int)
	LogMonteCarloRun(ctx context.Context, simulations int, successProbability float64, durationMs int64)
	LogQuoteFetch(ctx context.Context, symbols []string, fetched int, durationMs int64)
	LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string)
}

type CircuitBreakerInterface interface {
	IsOpen() bool
	RecordSuccess()
	RecordFailure()
	GetState() models.CircuitBreakerState
	Reset()
	GetFailureCount() int
}
