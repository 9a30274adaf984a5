package repositories

import (
	"fmt"

	"pfm-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// netWorthSnapshotRepository implements NetWorthSnapshotRepositoryInterface
type netWorthSnapshotRepository struct {
	db *gorm.DB
}

// NewNetWorthSnapshotRepository creates a new net worth snapshot repository
func NewNetWorthSnapshotRepository(db *gorm.DB) NetWorthSnapshotRepositoryInterface {
	return &netWorthSnapshotRepository{
		db: db,
	}
}

// Upsert stores the snapshot, replacing the figures of an existing snapshot
// for the same user and day.
func (r *netWorthSnapshotRepository) Upsert(snapshot *models.NetWorthSnapshot) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"net_worth", "cash", "investments", "debt"}),
	}).Create(snapshot).Error
	if err != nil {
		return fmt.Errorf("failed to save net worth snapshot: %w", err)
	}
	return nil
}

// GetByUserID lists the user's snapshots oldest first
func (r *netWorthSnapshotRepository) GetByUserID(userID uuid.UUID) ([]models.NetWorthSnapshot, error) {
	var snapshots []models.NetWorthSnapshot
	if err := r.db.Where("user_id = ?", userID).Order("date ASC").Find(&snapshots).Error; err != nil {
		return nil, fmt.Errorf("failed to get net worth snapshots: %w", err)
	}
	return snapshots, nil
}
