package dto

import "github.com/shopspring/decimal"

// FireDataResponse seeds the FIRE calculator from stored data
type FireDataResponse struct {
	CurrentPortfolio    decimal.Decimal `json:"current_portfolio"`
	MonthlyInvestment   decimal.Decimal `json:"monthly_investment"`
	AnnualContributions decimal.Decimal `json:"annual_contributions"`
	WithdrawalRate      decimal.Decimal `json:"withdrawal_rate"`
}

// ProjectionRequest holds deterministic projection inputs. Percentages are
// whole numbers (4 means 4%).
type ProjectionRequest struct {
	AnnualSpending        float64 `json:"annual_spending" validate:"gte=0"`
	WithdrawalRatePercent float64 `json:"withdrawal_rate" validate:"gt=0,lte=100"`
	CurrentPortfolio      float64 `json:"current_portfolio" validate:"gte=0"`
	AnnualContributions   float64 `json:"annual_contributions" validate:"gte=0"`
	ExpectedReturnPercent float64 `json:"expected_return" validate:"gte=-100,lte=100"`
}

// MonteCarloRequest holds simulation inputs. Rates are fractions (0.07 means
// 7%). A nil Seed draws a fresh random source.
type MonteCarloRequest struct {
	Initial            float64 `json:"initial" validate:"gte=0"`
	AnnualContribution float64 `json:"annual_contribution" validate:"gte=0"`
	Years              int     `json:"years" validate:"gte=0,lte=100"`
	MeanReturn         float64 `json:"mean_return" validate:"gte=-1,lte=1"`
	Volatility         float64 `json:"volatility" validate:"gte=0,lte=1"`
	Inflation          float64 `json:"inflation" validate:"gte=-1,lte=1"`
	AnnualWithdrawal   float64 `json:"annual_withdrawal" validate:"gte=0"`
	Simulations        int     `json:"simulations" validate:"required,min=1,max=100000"`
	Seed               *int64  `json:"seed,omitempty"`
}
