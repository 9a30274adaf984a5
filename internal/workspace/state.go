// Package workspace holds a single user's budgeting workspace: balances,
// ledger rows, budget targets and target allocation. State changes only
// through actions dispatched to a Store.
package workspace

import (
	"github.com/shopspring/decimal"

	"pfm-api/internal/ledger"
)

// State is the full workspace. MonthlySpending and NetWorthHistory are
// derived from Transactions and Balances.
type State struct {
	Balances         ledger.Balances            `json:"balances"`
	Transactions     []ledger.Entry             `json:"transactions"`
	MonthlySpending  []ledger.MonthlyPoint      `json:"monthly_spending"`
	NetWorthHistory  []ledger.NetWorthPoint     `json:"net_worth_history"`
	BudgetCategories map[string]decimal.Decimal `json:"budget_categories"`
	Holdings         map[string]decimal.Decimal `json:"holdings"`
}

// DefaultState returns the state of a new workspace.
func DefaultState() State {
	return State{
		Balances: ledger.Balances{
			Cash:        decimal.NewFromInt(10000),
			Investments: decimal.NewFromInt(25000),
			Debt:        decimal.NewFromInt(5000),
		},
		Transactions:    []ledger.Entry{},
		MonthlySpending: []ledger.MonthlyPoint{},
		NetWorthHistory: []ledger.NetWorthPoint{},
		BudgetCategories: map[string]decimal.Decimal{
			"Rent":      decimal.NewFromInt(1500),
			"Groceries": decimal.NewFromInt(400),
			"Utilities": decimal.NewFromInt(150),
			"Fun":       decimal.NewFromInt(200),
		},
		Holdings: map[string]decimal.Decimal{
			"VTI":  decimal.NewFromInt(50),
			"VXUS": decimal.NewFromInt(30),
			"BND":  decimal.NewFromInt(20),
		},
	}
}

func (s *State) derive() {
	s.MonthlySpending = ledger.MonthlyTotals(s.Transactions)
	s.NetWorthHistory = ledger.NetWorthHistory(s.Balances, s.MonthlySpending)
}

func (s State) clone() State {
	out := s
	out.Transactions = append([]ledger.Entry{}, s.Transactions...)
	out.MonthlySpending = append([]ledger.MonthlyPoint{}, s.MonthlySpending...)
	out.NetWorthHistory = append([]ledger.NetWorthPoint{}, s.NetWorthHistory...)
	out.BudgetCategories = cloneAmounts(s.BudgetCategories)
	out.Holdings = cloneAmounts(s.Holdings)
	return out
}

func cloneAmounts(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// TotalBudget sums the budget targets.
func (s State) TotalBudget() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s.BudgetCategories {
		total = total.Add(v)
	}
	return total
}
