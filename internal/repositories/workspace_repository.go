package repositories

import (
	"errors"
	"fmt"
	"time"

	"pfm-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
)

// workspaceRepository implements WorkspaceRepositoryInterface
type workspaceRepository struct {
	db *gorm.DB
}

// NewWorkspaceRepository creates a new workspace state repository
func NewWorkspaceRepository(db *gorm.DB) WorkspaceRepositoryInterface {
	return &workspaceRepository{
		db: db,
	}
}

// Get retrieves the stored workspace of a user
func (r *workspaceRepository) Get(userID uuid.UUID) (*models.WorkspaceState, error) {
	var ws models.WorkspaceState
	if err := r.db.Where("user_id = ?", userID).First(&ws).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return &ws, nil
}

// workspaceCreateAttempts bounds retries when two first writes for the same
// user race on the primary key
const workspaceCreateAttempts = 3

// Update runs mutate against the user's workspace row while holding a row
// lock, stores the returned state and bumps the version. An error from mutate
// is returned as is and nothing is written.
func (r *workspaceRepository) Update(userID uuid.UUID, mutate WorkspaceMutation) (*models.WorkspaceState, error) {
	var (
		saved *models.WorkspaceState
		err   error
	)
	for attempt := 0; attempt < workspaceCreateAttempts; attempt++ {
		saved, err = r.update(userID, mutate)
		if !isDuplicateKeyError(err) {
			break
		}
	}
	return saved, err
}

func (r *workspaceRepository) update(userID uuid.UUID, mutate WorkspaceMutation) (*models.WorkspaceState, error) {
	var (
		saved     models.WorkspaceState
		mutateErr error
	)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current *models.WorkspaceState
		err := lockRow(tx).Where("user_id = ?", userID).Take(&saved).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
		case err != nil:
			return err
		default:
			found := saved
			current = &found
		}

		state, err := mutate(current)
		if err != nil {
			mutateErr = err
			return err
		}

		if current == nil {
			saved = models.WorkspaceState{
				UserID:    userID,
				State:     state,
				Version:   1,
				UpdatedAt: time.Now(),
			}
			return tx.Create(&saved).Error
		}

		saved.State = state
		saved.Version++
		saved.UpdatedAt = time.Now()
		return tx.Save(&saved).Error
	})
	if mutateErr != nil {
		return nil, mutateErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save workspace: %w", err)
	}
	return &saved, nil
}

// Delete removes the stored workspace of a user
func (r *workspaceRepository) Delete(userID uuid.UUID) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.WorkspaceState{}).Error; err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	return nil
}

// lockRow adds SELECT ... FOR UPDATE. sqlite has no row locks; a write
// transaction there already excludes other writers.
func lockRow(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
