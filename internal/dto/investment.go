package dto

import (
	"pfm-api/internal/models"

	"github.com/shopspring/decimal"
)

// CreateInvestmentRequest records a position
type CreateInvestmentRequest struct {
	Symbol        string `json:"symbol" validate:"required,symbol"`
	Shares        string `json:"shares" validate:"required,money"`
	PurchasePrice string `json:"purchase_price" validate:"omitempty,money"`
	PurchaseDate  string `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateInvestmentRequest changes a position. Empty fields are left unchanged.
type UpdateInvestmentRequest struct {
	Shares        string `json:"shares" validate:"omitempty,money"`
	PurchasePrice string `json:"purchase_price" validate:"omitempty,money"`
	PurchaseDate  string `json:"purchase_date" validate:"omitempty,datetime=2006-01-02"`
}

// InvestmentListResponse lists positions with their total cost basis
type InvestmentListResponse struct {
	Investments []models.Investment `json:"investments"`
	Total       int                 `json:"total"`
	CostBasis   decimal.Decimal     `json:"cost_basis"`
}

// HoldingFee is the expense ratio of one symbol. ExpenseRatio is a fraction
// (0.0003 means 0.03%).
type HoldingFee struct {
	Symbol       string          `json:"symbol"`
	ExpenseRatio float64         `json:"expense_ratio"`
	Known        bool            `json:"known"`
	CostBasis    decimal.Decimal `json:"cost_basis"`
	AnnualFee    decimal.Decimal `json:"annual_fee"`
}

// FeeAnalysisResponse summarizes portfolio fees. AverageExpenseRatio is the
// simple mean across symbols.
type FeeAnalysisResponse struct {
	Holdings            []HoldingFee    `json:"holdings"`
	AverageExpenseRatio float64         `json:"average_expense_ratio"`
	AverageFormatted    string          `json:"average_formatted"`
	TotalAnnualFees     decimal.Decimal `json:"total_annual_fees"`
}
