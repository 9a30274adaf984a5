package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AuditActionLogin             = "login"
	AuditActionLogout            = "logout"
	AuditActionRegister          = "register"
	AuditActionFailedLogin       = "failed_login"
	AuditActionAccountLocked     = "account_locked"
	AuditActionAccountCreated    = "account_created"
	AuditActionAccountUpdated    = "account_updated"
	AuditActionAccountDeleted    = "account_deleted"
	AuditActionImport            = "transactions_imported"
	AuditActionCategoryCreated   = "category_created"
	AuditActionCategoryUpdated   = "category_updated"
	AuditActionCategoryDeleted   = "category_deleted"
	AuditActionRulesApplied      = "rules_applied"
	AuditActionInvestmentCreated = "investment_created"
	AuditActionInvestmentDeleted = "investment_deleted"
	AuditActionSettingsUpdated   = "settings_updated"
	AuditActionWorkspaceSaved    = "workspace_saved"
	AuditActionWorkspaceReset    = "workspace_reset"
)

// AuditLog is one row of the per-user activity trail shown on /auth/me/activity
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Action     string     `gorm:"type:varchar(100);not null;index" json:"action"`
	Resource   string     `gorm:"type:varchar(100);not null" json:"resource"`
	ResourceID string     `gorm:"type:varchar(255)" json:"resource_id,omitempty"`
	IPAddress  string     `gorm:"type:varchar(45)" json:"ip_address,omitempty"`
	UserAgent  string     `gorm:"type:text" json:"user_agent,omitempty"`
	Metadata   JSONMap    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt  time.Time  `gorm:"not null;index" json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
}

// Anonymous reports whether the entry was recorded before a user was known,
// e.g. a failed login for an unregistered email.
func (al *AuditLog) Anonymous() bool {
	return al.UserID == nil
}

func (al *AuditLog) TableName() string {
	return "audit_logs"
}

func (al *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if al.ID == uuid.Nil {
		al.ID = uuid.New()
	}
	if al.CreatedAt.IsZero() {
		al.CreatedAt = time.Now()
	}
	return nil
}
