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

var (
	ErrTransactionDescriptionRequired = errors.New("transaction description is required")
	ErrTransactionDateRequired        = errors.New("transaction date is required")
)

// Transaction is an imported account movement. Expenses are negative.
// (account_id, date, description, amount) is unique so re-importing the same
// file is a no-op.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_transactions_dedup,priority:1" json:"account_id"`
	Date        time.Time       `gorm:"type:date;not null;index;uniqueIndex:idx_transactions_dedup,priority:2" json:"date"`
	Description string          `gorm:"type:text;not null;uniqueIndex:idx_transactions_dedup,priority:3" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null;uniqueIndex:idx_transactions_dedup,priority:4" json:"amount"`
	CategoryID  *uuid.UUID      `gorm:"type:uuid;index" json:"category_id,omitempty"`
	RawFields   JSONMap         `gorm:"type:text" json:"raw_fields,omitempty"`
	CreatedAt   time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	Account  Account   `gorm:"foreignKey:AccountID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	return t.Validate()
}

func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if t.AccountID == uuid.Nil {
		return errors.New("account ID is required")
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrTransactionDescriptionRequired
	}
	if t.Date.IsZero() {
		return ErrTransactionDateRequired
	}
	return nil
}

func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

func (t *Transaction) IsCategorized() bool {
	return t.CategoryID != nil
}

func (t *Transaction) TableName() string {
	return "transactions"
}

// NewTransactionFromEntry builds a transaction for an account from a
// normalized import entry.
func NewTransactionFromEntry(userID, accountID uuid.UUID, entry ledger.Entry) Transaction {
	return Transaction{
		UserID:      userID,
		AccountID:   accountID,
		Date:        entry.Date,
		Description: entry.Description,
		Amount:      entry.Amount.Round(2),
		RawFields:   JSONMap(entry.RawFields),
	}
}

// ToEntry converts a transaction back to a ledger entry. The category name is
// taken from the preloaded association when present.
func (t *Transaction) ToEntry() ledger.Entry {
	entry := ledger.Entry{
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
	}
	if t.Category != nil {
		entry.Category = t.Category.Name
	}
	return entry
}

// ToEntries converts a slice of transactions.
func ToEntries(transactions []Transaction) []ledger.Entry {
	entries := make([]ledger.Entry, 0, len(transactions))
	for i := range transactions {
		entries = append(entries, transactions[i].ToEntry())
	}
	return entries
}
