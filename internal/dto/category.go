package dto

import "pfm-api/internal/models"

// CreateCategoryRequest creates a budget category. Rules are optional regex
// patterns appended in the given order.
type CreateCategoryRequest struct {
	Name          string   `json:"name" validate:"required,min=1,max=100"`
	PlannedAmount string   `json:"planned_amount" validate:"omitempty,money"`
	Rules         []string `json:"rules" validate:"omitempty,max=50,dive,regex_pattern"`
}

// AddRuleRequest appends a regex rule to a category
type AddRuleRequest struct {
	Pattern string `json:"pattern" validate:"required,regex_pattern"`
}

// CategoryListResponse lists categories in evaluation order
type CategoryListResponse struct {
	Categories []models.Category `json:"categories"`
	Total      int               `json:"total"`
}
