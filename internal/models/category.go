package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pfm-api/internal/rules"
)

// Categorization method types
const (
	CategorizationMethodRule    = "RULE"
	CategorizationMethodKeyword = "KEYWORD"
	CategorizationMethodLearned = "LEARNED"
	CategorizationMethodManual  = "MANUAL"
)

var ErrCategoryNameRequired = errors.New("category name is required")

// Category is a budget bucket. Rules are regex patterns evaluated in order.
type Category struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name,priority:1" json:"user_id"`
	Name          string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_user_name,priority:2" json:"name"`
	PlannedAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"planned_amount"`
	Rules         StringList      `gorm:"type:text" json:"rules"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Rules == nil {
		c.Rules = StringList{}
	}

	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}

	return c.Validate()
}

func (c *Category) Validate() error {
	if c.UserID == uuid.Nil {
		return errors.New("user ID is required")
	}
	if c.Name == "" {
		return ErrCategoryNameRequired
	}
	if c.PlannedAmount.IsNegative() {
		return errors.New("planned amount cannot be negative")
	}
	return nil
}

func (c *Category) TableName() string {
	return "categories"
}

// ToRuleCategory exposes the category to the rule engine.
func (c *Category) ToRuleCategory() rules.Category {
	return rules.Category{
		ID:       c.ID.String(),
		Name:     c.Name,
		Patterns: append([]string{}, c.Rules...),
	}
}

// CategorizationResult describes how a transaction got its category.
type CategorizationResult struct {
	TransactionID  uuid.UUID `json:"transaction_id"`
	CategoryID     uuid.UUID `json:"category_id"`
	Method         string    `json:"method"`
	MatchedPattern string    `json:"matched_pattern,omitempty"`
}

// StringList is a list of strings stored as a JSON array.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	bytes, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

func (l *StringList) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}

	if len(bytes) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(bytes, (*[]string)(l))
}
