package repositories

import (
	"time"

	"pfm-api/internal/models"

	"github.com/google/uuid"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uuid.UUID) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	UpdateFailedLoginAttempts(user *models.User) error
	ResetFailedLoginAttempts(userID uuid.UUID) error
	Delete(userID uuid.UUID) error
}

// AccountRepositoryInterface defines the contract for account repository operations
type AccountRepositoryInterface interface {
	Create(account *models.Account) error
	GetByID(id, userID uuid.UUID) (*models.Account, error)
	GetByUserID(userID uuid.UUID) ([]models.Account, error)
	Update(account *models.Account) error
	Delete(id, userID uuid.UUID) error
}

// TransactionRepositoryInterface defines the contract for transaction repository operations
type TransactionRepositoryInterface interface {
	CreateBatch(transactions []models.Transaction) (int64, error)
	GetByID(id, userID uuid.UUID) (*models.Transaction, error)
	GetByUserID(userID uuid.UUID) ([]models.Transaction, error)
	GetByDateRange(userID uuid.UUID, start, end time.Time) ([]models.Transaction, error)
	GetUncategorized(userID uuid.UUID) ([]models.Transaction, error)
	GetDistinctMonths(userID uuid.UUID) ([]string, error)
	UpdateCategory(id uuid.UUID, categoryID uuid.UUID) error
	AssignCategories(assignments map[uuid.UUID]uuid.UUID) (int64, error)
	DeleteByUserID(userID uuid.UUID) (int64, error)
}

// CategoryRepositoryInterface defines the contract for category repository operations
type CategoryRepositoryInterface interface {
	Create(category *models.Category) error
	GetByID(id, userID uuid.UUID) (*models.Category, error)
	GetByUserID(userID uuid.UUID) ([]models.Category, error)
	Update(category *models.Category) error
	Delete(id, userID uuid.UUID) error
}

// SuggestionRepositoryInterface defines the contract for keyword learning storage
type SuggestionRepositoryInterface interface {
	IncrementKeywords(userID, categoryID uuid.UUID, keywords []string) error
	GetByKeywords(userID uuid.UUID, keywords []string) ([]models.CategorizationSuggestion, error)
}

// NetWorthSnapshotRepositoryInterface defines the contract for net worth snapshot storage
type NetWorthSnapshotRepositoryInterface interface {
	Upsert(snapshot *models.NetWorthSnapshot) error
	GetByUserID(userID uuid.UUID) ([]models.NetWorthSnapshot, error)
}

// InvestmentRepositoryInterface defines the contract for investment repository operations
type InvestmentRepositoryInterface interface {
	Create(investment *models.Investment) error
	GetByID(id, userID uuid.UUID) (*models.Investment, error)
	GetByUserID(userID uuid.UUID) ([]models.Investment, error)
	Update(investment *models.Investment) error
	Delete(id, userID uuid.UUID) error
}

// SettingsRepositoryInterface defines the contract for user settings storage
type SettingsRepositoryInterface interface {
	GetByUserID(userID uuid.UUID) (*models.UserSettings, error)
	Upsert(settings *models.UserSettings) error
}

// WorkspaceMutation receives the locked workspace row, nil when the user has
// none yet, and returns the state JSON to store in its place
type WorkspaceMutation func(current *models.WorkspaceState) (string, error)

// WorkspaceRepositoryInterface defines the contract for persisted workspace state
type WorkspaceRepositoryInterface interface {
	Get(userID uuid.UUID) (*models.WorkspaceState, error)
	Update(userID uuid.UUID, mutate WorkspaceMutation) (*models.WorkspaceState, error)
	Delete(userID uuid.UUID) error
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(log *models.AuditLog) error
	GetByUserID(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	GetByAction(action string, offset, limit int) ([]*models.AuditLog, int64, error)
	DeleteOlderThan(duration time.Duration) (int64, error)
}

// BlacklistedTokenRepositoryInterface defines the contract for blacklisted token repository operations
type BlacklistedTokenRepositoryInterface interface {
	Create(token *models.BlacklistedToken) error
	GetByJTI(jti string) (*models.BlacklistedToken, error)
	DeleteExpired() (int64, error)
}
