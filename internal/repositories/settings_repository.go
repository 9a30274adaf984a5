package repositories

import (
	"errors"
	"fmt"

	"pfm-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrSettingsNotFound = errors.New("settings not found")
)

// settingsRepository implements SettingsRepositoryInterface
type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository creates a new user settings repository
func NewSettingsRepository(db *gorm.DB) SettingsRepositoryInterface {
	return &settingsRepository{
		db: db,
	}
}

// GetByUserID retrieves the settings row of a user
func (r *settingsRepository) GetByUserID(userID uuid.UUID) (*models.UserSettings, error) {
	var settings models.UserSettings
	if err := r.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// Upsert creates or replaces the settings row of a user
func (r *settingsRepository) Upsert(settings *models.UserSettings) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"currency",
			"locale",
			"monthly_income",
			"monthly_investment",
			"withdrawal_rate",
			"enable_rollover",
			"updated_at",
		}),
	}).Create(settings).Error
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
