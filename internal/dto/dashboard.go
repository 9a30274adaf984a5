package dto

import (
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"

	"github.com/shopspring/decimal"
)

// KPIs are the headline numbers of the dashboard
type KPIs struct {
	Month         string          `json:"month"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	TotalBudget   decimal.Decimal `json:"total_budget"`
	NetWorth      decimal.Decimal `json:"net_worth"`
	Uncategorized int             `json:"uncategorized"`
}

// InitialDataResponse bundles everything the dashboard needs on first load
type InitialDataResponse struct {
	Accounts        []models.Account      `json:"accounts"`
	Transactions    []models.Transaction  `json:"transactions"`
	Categories      []models.Category     `json:"categories"`
	Investments     []models.Investment   `json:"investments"`
	MonthlySpending []ledger.MonthlyPoint `json:"monthly_spending"`
	KPIs            KPIs                  `json:"kpis"`
}
