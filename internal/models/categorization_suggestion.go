package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategorizationSuggestion counts how often a keyword was seen on a
// transaction the user put in a category.
type CategorizationSuggestion struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_suggestions_user_keyword_category,priority:1" json:"user_id"`
	Keyword         string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_suggestions_user_keyword_category,priority:2" json:"keyword"`
	CategoryID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_suggestions_user_keyword_category,priority:3" json:"category_id"`
	ConfidenceScore int       `gorm:"not null;default:1" json:"confidence_score"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

func (s *CategorizationSuggestion) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Keyword = strings.ToLower(s.Keyword)

	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	if s.UserID == uuid.Nil || s.CategoryID == uuid.Nil {
		return errors.New("user ID and category ID are required")
	}
	if s.Keyword == "" {
		return errors.New("keyword is required")
	}
	return nil
}

func (s *CategorizationSuggestion) TableName() string {
	return "categorization_suggestions"
}
