package repositories

import (
	"fmt"
	"time"

	"pfm-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// suggestionRepository implements SuggestionRepositoryInterface
type suggestionRepository struct {
	db *gorm.DB
}

// NewSuggestionRepository creates a new categorization suggestion repository
func NewSuggestionRepository(db *gorm.DB) SuggestionRepositoryInterface {
	return &suggestionRepository{
		db: db,
	}
}

// IncrementKeywords adds one to the (user, keyword, category) confidence score
// for every keyword, creating rows as needed. A keyword listed twice is
// counted twice.
func (r *suggestionRepository) IncrementKeywords(userID, categoryID uuid.UUID, keywords []string) error {
	if len(keywords) == 0 {
		return nil
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, keyword := range keywords {
			suggestion := &models.CategorizationSuggestion{
				UserID:          userID,
				Keyword:         keyword,
				CategoryID:      categoryID,
				ConfidenceScore: 1,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "user_id"}, {Name: "keyword"}, {Name: "category_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"confidence_score": gorm.Expr("categorization_suggestions.confidence_score + 1"),
					"updated_at":       time.Now(),
				}),
			}).Create(suggestion).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record keyword suggestions: %w", err)
	}

	return nil
}

// GetByKeywords retrieves the user's suggestion rows for the given keywords
func (r *suggestionRepository) GetByKeywords(userID uuid.UUID, keywords []string) ([]models.CategorizationSuggestion, error) {
	var suggestions []models.CategorizationSuggestion
	if len(keywords) == 0 {
		return suggestions, nil
	}

	if err := r.db.Where("user_id = ? AND keyword IN ?", userID, keywords).
		Order("keyword ASC, confidence_score DESC").
		Find(&suggestions).Error; err != nil {
		return nil, fmt.Errorf("failed to get keyword suggestions: %w", err)
	}
	return suggestions, nil
}
