package dto

import (
	"pfm-api/internal/models"

	"github.com/shopspring/decimal"
)

// Account Request DTOs

// CreateAccountRequest represents the request payload for creating a new account
type CreateAccountRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	AccountType string `json:"account_type" validate:"required,account_type"`
	Balance     string `json:"balance" validate:"omitempty,money"`
	Institution string `json:"institution" validate:"omitempty,max=100"`
}

// UpdateBalanceRequest sets an account balance. Debt balances are amounts owed.
type UpdateBalanceRequest struct {
	Balance string `json:"balance" validate:"required,money"`
}

// Account Response DTOs

// AccountListResponse lists a user's accounts with their bucketed totals
type AccountListResponse struct {
	Accounts    []models.Account `json:"accounts"`
	Total       int              `json:"total"`
	Cash        decimal.Decimal  `json:"cash"`
	Investments decimal.Decimal  `json:"investments"`
	Debt        decimal.Decimal  `json:"debt"`
	NetWorth    decimal.Decimal  `json:"net_worth"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
