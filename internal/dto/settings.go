package dto

// UpdateSettingsRequest replaces the user's settings. Omitted fields keep
// their stored values.
type UpdateSettingsRequest struct {
	Currency          string `json:"currency" validate:"omitempty,len=3,alpha"`
	Locale            string `json:"locale" validate:"omitempty,max=10"`
	MonthlyIncome     string `json:"monthly_income" validate:"omitempty,money"`
	MonthlyInvestment string `json:"monthly_investment" validate:"omitempty,money"`
	WithdrawalRate    string `json:"withdrawal_rate" validate:"omitempty,money"`
	EnableRollover    *bool  `json:"enable_rollover"`
}
