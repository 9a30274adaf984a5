package repositories

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"pfm-api/internal/ledger"
	"pfm-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
)

const importBatchSize = 500

// transactionRepository implements TransactionRepositoryInterface
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &transactionRepository{
		db: db,
	}
}

// CreateBatch inserts transactions and silently skips rows that collide with
// the (account_id, date, description, amount) unique key. It returns the
// number of rows actually inserted.
func (r *transactionRepository) CreateBatch(transactions []models.Transaction) (int64, error) {
	if len(transactions) == 0 {
		return 0, nil
	}

	var inserted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(transactions); start += importBatchSize {
			end := start + importBatchSize
			if end > len(transactions) {
				end = len(transactions)
			}
			batch := transactions[start:end]
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&batch)
			if result.Error != nil {
				return result.Error
			}
			inserted += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create transactions: %w", err)
	}

	return inserted, nil
}

// GetByID retrieves a transaction owned by the user
func (r *transactionRepository) GetByID(id, userID uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := r.db.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// GetByUserID retrieves all transactions for a user, newest first
func (r *transactionRepository) GetByUserID(userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

// GetByDateRange retrieves transactions with start <= date < end, newest first
func (r *transactionRepository) GetByDateRange(userID uuid.UUID, start, end time.Time) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Preload("Category").
		Where("user_id = ? AND date >= ? AND date < ?", userID, start, end).
		Order("date DESC, created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get transactions by date range: %w", err)
	}
	return transactions, nil
}

// GetUncategorized retrieves the user's transactions without a category
func (r *transactionRepository) GetUncategorized(userID uuid.UUID) ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := r.db.Where("user_id = ? AND category_id IS NULL", userID).
		Order("date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to get uncategorized transactions: %w", err)
	}
	return transactions, nil
}

// GetDistinctMonths returns the YYYY-MM months that have transactions, newest first
func (r *transactionRepository) GetDistinctMonths(userID uuid.UUID) ([]string, error) {
	var dates []time.Time
	if err := r.db.Model(&models.Transaction{}).
		Where("user_id = ?", userID).
		Pluck("date", &dates).Error; err != nil {
		return nil, fmt.Errorf("failed to get transaction months: %w", err)
	}

	seen := make(map[string]struct{}, len(dates))
	months := make([]string, 0)
	for _, d := range dates {
		key := ledger.MonthKey(d)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		months = append(months, key)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))

	return months, nil
}

// UpdateCategory sets the category of a transaction
func (r *transactionRepository) UpdateCategory(id uuid.UUID, categoryID uuid.UUID) error {
	result := r.db.Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"category_id": categoryID, "updated_at": time.Now()})
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

// AssignCategories sets categories on transactions that are still
// uncategorized, atomically. Transactions categorized in the meantime are
// left untouched. It returns the number of rows updated.
func (r *transactionRepository) AssignCategories(assignments map[uuid.UUID]uuid.UUID) (int64, error) {
	if len(assignments) == 0 {
		return 0, nil
	}

	var updated int64
	now := time.Now()
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for transactionID, categoryID := range assignments {
			result := tx.Model(&models.Transaction{}).
				Where("id = ? AND category_id IS NULL", transactionID).
				Updates(map[string]interface{}{"category_id": categoryID, "updated_at": now})
			if result.Error != nil {
				return result.Error
			}
			updated += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to assign categories: %w", err)
	}

	return updated, nil
}

// DeleteByUserID removes every transaction of the user
func (r *transactionRepository) DeleteByUserID(userID uuid.UUID) (int64, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete transactions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
