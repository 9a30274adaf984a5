package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DefaultCurrency       = "USD"
	DefaultLocale         = "en-US"
	DefaultWithdrawalRate = 4
)

// UserSettings holds per-user preferences, one row per user.
type UserSettings struct {
	UserID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"user_id"`
	Currency          string          `gorm:"type:varchar(3);not null;default:'USD'" json:"currency"`
	Locale            string          `gorm:"type:varchar(10);not null;default:'en-US'" json:"locale"`
	MonthlyIncome     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"monthly_income"`
	MonthlyInvestment decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"monthly_investment"`
	WithdrawalRate    decimal.Decimal `gorm:"type:decimal(5,2);not null;default:4" json:"withdrawal_rate"`
	EnableRollover    bool            `gorm:"not null;default:false" json:"enable_rollover"`
	CreatedAt         time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time       `gorm:"not null" json:"updated_at"`
}

// DefaultUserSettings returns the settings a user starts with.
func DefaultUserSettings(userID uuid.UUID) *UserSettings {
	return &UserSettings{
		UserID:         userID,
		Currency:       DefaultCurrency,
		Locale:         DefaultLocale,
		WithdrawalRate: decimal.NewFromInt(DefaultWithdrawalRate),
	}
}

func (s *UserSettings) BeforeSave(tx *gorm.DB) error {
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	return s.Validate()
}

func (s *UserSettings) Validate() error {
	if s.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if len(s.Currency) != 3 {
		return errors.New("currency must be a 3 letter code")
	}
	if s.MonthlyIncome.IsNegative() || s.MonthlyInvestment.IsNegative() {
		return errors.New("monthly amounts cannot be negative")
	}
	if !s.WithdrawalRate.IsPositive() || s.WithdrawalRate.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("withdrawal rate must be between 0 and 100")
	}
	return nil
}

func (s *UserSettings) TableName() string {
	return "user_settings"
}
