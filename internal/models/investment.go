package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrInvalidSymbol = errors.New("invalid ticker symbol")
	ErrInvalidShares = errors.New("shares must be positive")
	ErrInvalidPrice  = errors.New("purchase price cannot be negative")

	symbolRegex = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)
)

// Investment is a position in a single ticker.
type Investment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Symbol        string          `gorm:"type:varchar(10);not null;index" json:"symbol"`
	Shares        decimal.Decimal `gorm:"type:decimal(20,6);not null" json:"shares"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"purchase_price"`
	PurchaseDate  *time.Time      `gorm:"type:date" json:"purchase_date,omitempty"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (i *Investment) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}

	now := time.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	if i.UpdatedAt.IsZero() {
		i.UpdatedAt = now
	}

	return i.Validate()
}

func (i *Investment) BeforeUpdate(tx *gorm.DB) error {
	i.UpdatedAt = time.Now()
	return i.Validate()
}

func (i *Investment) Validate() error {
	if i.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	i.Symbol = NormalizeSymbol(i.Symbol)
	if !IsValidSymbol(i.Symbol) {
		return ErrInvalidSymbol
	}
	if !i.Shares.IsPositive() {
		return ErrInvalidShares
	}
	if i.PurchasePrice.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// CostBasis is shares times purchase price.
func (i *Investment) CostBasis() decimal.Decimal {
	return i.Shares.Mul(i.PurchasePrice).Round(2)
}

func (i *Investment) TableName() string {
	return "investments"
}

func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func IsValidSymbol(symbol string) bool {
	return symbolRegex.MatchString(symbol)
}
