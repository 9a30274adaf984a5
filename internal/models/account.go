package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pfm-api/internal/ledger"
)

const (
	AccountTypeCash       = "cash"
	AccountTypeInvestment = "investment"
	AccountTypeDebt       = "debt"
)

var (
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidBalance     = errors.New("balance cannot be negative")
)

// accountTypeAliases maps institution account kinds to the three net worth buckets.
var accountTypeAliases = map[string]string{
	"cash":        AccountTypeCash,
	"checking":    AccountTypeCash,
	"savings":     AccountTypeCash,
	"depository":  AccountTypeCash,
	"investment":  AccountTypeInvestment,
	"investments": AccountTypeInvestment,
	"brokerage":   AccountTypeInvestment,
	"retirement":  AccountTypeInvestment,
	"debt":        AccountTypeDebt,
	"credit":      AccountTypeDebt,
	"loan":        AccountTypeDebt,
	"mortgage":    AccountTypeDebt,
}

// Account is a balance held at an institution. Debt balances are stored as
// positive amounts owed.
type Account struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	AccountType string          `gorm:"type:varchar(20);not null" json:"account_type"`
	Balance     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	Institution string          `gorm:"type:varchar(100)" json:"institution,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"-"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.AccountType = NormalizeAccountType(a.AccountType)

	now := time.Now()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}

	return a.Validate()
}

func (a *Account) BeforeUpdate(tx *gorm.DB) error {
	a.UpdatedAt = time.Now()
	return a.Validate()
}

func (a *Account) Validate() error {
	if a.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("account name is required")
	}
	if !IsValidAccountType(a.AccountType) {
		return ErrInvalidAccountType
	}
	if a.Balance.IsNegative() {
		return ErrInvalidBalance
	}
	return nil
}

func (a *Account) TableName() string {
	return "accounts"
}

// NormalizeAccountType resolves aliases such as "checking" or "brokerage".
// Unknown types are returned lowercased and fail validation.
func NormalizeAccountType(accountType string) string {
	key := strings.ToLower(strings.TrimSpace(accountType))
	if t, ok := accountTypeAliases[key]; ok {
		return t
	}
	return key
}

func IsValidAccountType(accountType string) bool {
	switch accountType {
	case AccountTypeCash, AccountTypeInvestment, AccountTypeDebt:
		return true
	default:
		return false
	}
}

// SumBalances buckets account balances into cash, investments and debt.
func SumBalances(accounts []Account) ledger.Balances {
	var b ledger.Balances
	for _, a := range accounts {
		switch NormalizeAccountType(a.AccountType) {
		case AccountTypeCash:
			b.Cash = b.Cash.Add(a.Balance)
		case AccountTypeInvestment:
			b.Investments = b.Investments.Add(a.Balance)
		case AccountTypeDebt:
			b.Debt = b.Debt.Add(a.Balance)
		}
	}
	return b
}
