package models

import (
	"time"

	"github.com/google/uuid"
)

// WorkspaceState stores the exported workspace JSON for a user. Version is
// incremented on every save.
type WorkspaceState struct {
	UserID    uuid.UUID `gorm:"type:uuid;primary_key" json:"user_id"`
	State     string    `gorm:"type:text;not null" json:"state"`
	Version   int       `gorm:"not null;default:1" json:"version"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (w *WorkspaceState) TableName() string {
	return "workspace_states"
}
