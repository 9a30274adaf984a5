package dto

import (
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"
	"pfm-api/internal/rules"

	"github.com/google/uuid"
)

// ImportTransactionsRequest carries rows already split into field maps. Field
// names vary by institution and are resolved by the normalizer.
type ImportTransactionsRequest struct {
	AccountID string          `json:"account_id" validate:"required,uuid"`
	Rows      []ledger.RawRow `json:"transactions" validate:"required,min=1,max=5000"`
}

// ImportTransactionsResponse reports what happened to each submitted row
type ImportTransactionsResponse struct {
	Received   int           `json:"received"`
	Imported   int64         `json:"imported"`
	Duplicates int64         `json:"duplicates"`
	Skipped    []ledger.Skip `json:"skipped"`
}

// TransactionListQuery filters the transaction list
type TransactionListQuery struct {
	Month string `query:"month" validate:"omitempty,month"`
}

// TransactionListResponse represents a list of transactions, optionally for one month
type TransactionListResponse struct {
	Transactions []models.Transaction `json:"transactions"`
	Total        int                  `json:"total"`
	Month        string               `json:"month,omitempty"`
}

// MonthsResponse lists months with transactions, newest first
type MonthsResponse struct {
	Months []string `json:"months"`
}

// CategorizeRequest assigns a category to a single transaction
type CategorizeRequest struct {
	CategoryID string `json:"category_id" validate:"required,uuid"`
}

// CategorizeResponse returns the updated transaction and the keywords learned
type CategorizeResponse struct {
	Transaction *models.Transaction `json:"transaction"`
	Keywords    []string            `json:"keywords"`
}

// ApplyRulesResponse reports the assignments made by the regex rules
type ApplyRulesResponse struct {
	Updated     int64              `json:"updated"`
	Assignments []rules.Assignment `json:"assignments"`
}

// SuggestionQuery holds the description to find a category for
type SuggestionQuery struct {
	Description string `query:"description" validate:"required,max=500"`
}

// SuggestionResponse is the learned suggestion for a description. CategoryID
// is nil when nothing was learned; DefaultCategory comes from the static
// keyword table.
type SuggestionResponse struct {
	Keywords        []string   `json:"keywords"`
	CategoryID      *uuid.UUID `json:"category_id"`
	CategoryName    string     `json:"category_name,omitempty"`
	TotalScore      int        `json:"total_score"`
	DefaultCategory string     `json:"default_category,omitempty"`
}

// ClearTransactionsResponse reports how many transactions were removed
type ClearTransactionsResponse struct {
	Deleted int64 `json:"deleted"`
}
