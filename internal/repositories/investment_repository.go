package repositories

import (
	"errors"
	"fmt"

	"pfm-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvestmentNotFound = errors.New("investment not found")
)

// investmentRepository implements InvestmentRepositoryInterface
type investmentRepository struct {
	db *gorm.DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *gorm.DB) InvestmentRepositoryInterface {
	return &investmentRepository{
		db: db,
	}
}

// Create creates a new investment position
func (r *investmentRepository) Create(investment *models.Investment) error {
	if err := r.db.Create(investment).Error; err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}
	return nil
}

// GetByID retrieves an investment owned by the user
func (r *investmentRepository) GetByID(id, userID uuid.UUID) (*models.Investment, error) {
	var investment models.Investment
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&investment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	return &investment, nil
}

// GetByUserID lists the user's investments ordered by symbol
func (r *investmentRepository) GetByUserID(userID uuid.UUID) ([]models.Investment, error) {
	var investments []models.Investment
	if err := r.db.Where("user_id = ?", userID).Order("symbol ASC, created_at ASC").Find(&investments).Error; err != nil {
		return nil, fmt.Errorf("failed to get investments: %w", err)
	}
	return investments, nil
}

// Update saves all investment fields
func (r *investmentRepository) Update(investment *models.Investment) error {
	if err := r.db.Save(investment).Error; err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}
	return nil
}

// Delete removes an investment owned by the user
func (r *investmentRepository) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Investment{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete investment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInvestmentNotFound
	}
	return nil
}
