package dto

import (
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"

	"github.com/shopspring/decimal"
)

// MonthlySpendingQuery selects the month for category actuals
type MonthlySpendingQuery struct {
	Month string `query:"month" validate:"omitempty,month"`
}

// MonthlySpendingResponse holds expense totals per category for one month
type MonthlySpendingResponse struct {
	Month      string                 `json:"month"`
	Categories []ledger.CategorySpend `json:"categories"`
	Total      decimal.Decimal        `json:"total"`
}

// CashFlowResponse holds income and expenses for the trailing months
type CashFlowResponse struct {
	Points []ledger.CashFlowPoint `json:"points"`
}

// NetWorthHistoryResponse holds stored net worth snapshots, oldest first
type NetWorthHistoryResponse struct {
	Snapshots []models.NetWorthSnapshot `json:"snapshots"`
}
