package services

import (
	"errors"
	"fmt"
	"log/slog"

	"pfm-api/internal/models"
	"pfm-api/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidAuditLog = errors.New("invalid audit log")
)

var auditActions = map[string]struct{}{
	models.AuditActionLogin:             {},
	models.AuditActionLogout:            {},
	models.AuditActionRegister:          {},
	models.AuditActionFailedLogin:       {},
	models.AuditActionAccountLocked:     {},
	models.AuditActionAccountCreated:    {},
	models.AuditActionAccountUpdated:    {},
	models.AuditActionAccountDeleted:    {},
	models.AuditActionImport:            {},
	models.AuditActionCategoryCreated:   {},
	models.AuditActionCategoryUpdated:   {},
	models.AuditActionCategoryDeleted:   {},
	models.AuditActionRulesApplied:      {},
	models.AuditActionInvestmentCreated: {},
	models.AuditActionInvestmentDeleted: {},
	models.AuditActionSettingsUpdated:   {},
	models.AuditActionWorkspaceSaved:    {},
	models.AuditActionWorkspaceReset:    {},
}

// ValidateActivityType rejects actions that are not part of the audit vocabulary
func ValidateActivityType(action string) error {
	if _, ok := auditActions[action]; !ok {
		return fmt.Errorf("invalid activity type: %s", action)
	}
	return nil
}

// AuditService persists the user-facing audit trail
type AuditService struct {
	repo   repositories.AuditLogRepositoryInterface
	logger *slog.Logger
}

func NewAuditService(repo repositories.AuditLogRepositoryInterface, logger *slog.Logger) AuditServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditService{repo: repo, logger: logger}
}

// Record stores an audit entry. Failures are logged and never returned so an
// audit outage cannot fail the user's request.
func (s *AuditService) Record(userID uuid.UUID, action, resource, resourceID string, metadata map[string]interface{}) {
	if err := s.create(userID, action, resource, resourceID, metadata); err != nil {
		s.logger.Error("failed to record audit log",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource", resource,
			"resource_id", resourceID)
	}
}

func (s *AuditService) create(userID uuid.UUID, action, resource, resourceID string, metadata map[string]interface{}) error {
	if userID == uuid.Nil {
		return ErrInvalidUserID
	}
	if err := ValidateActivityType(action); err != nil {
		return err
	}

	entry := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Metadata:   metadata,
	}
	if err := s.repo.Create(entry); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// GetUserActivity pages through a user's audit trail, newest first
func (s *AuditService) GetUserActivity(userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrInvalidUserID
	}
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.GetByUserID(userID, offset, limit)
}
