package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pfm-api/internal/ledger"
)

// NetWorthSnapshot is a point-in-time net worth, one per user per day.
type NetWorthSnapshot struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_snapshots_user_date,priority:1" json:"user_id"`
	Date        time.Time       `gorm:"type:date;not null;uniqueIndex:idx_snapshots_user_date,priority:2" json:"date"`
	NetWorth    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"net_worth"`
	Cash        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"cash"`
	Investments decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"investments"`
	Debt        decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"debt"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
}

// NewNetWorthSnapshot records balances for the calendar day of at.
func NewNetWorthSnapshot(userID uuid.UUID, at time.Time, balances ledger.Balances) *NetWorthSnapshot {
	at = at.UTC()
	return &NetWorthSnapshot{
		UserID:      userID,
		Date:        time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC),
		NetWorth:    balances.NetWorth(),
		Cash:        balances.Cash,
		Investments: balances.Investments,
		Debt:        balances.Debt,
	}
}

func (s *NetWorthSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	if s.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if s.Date.IsZero() {
		return errors.New("snapshot date is required")
	}
	return nil
}

func (s *NetWorthSnapshot) TableName() string {
	return "net_worth_snapshots"
}
