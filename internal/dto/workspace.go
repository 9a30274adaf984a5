package dto

import (
	"time"

	"pfm-api/internal/ledger"
	"pfm-api/internal/workspace"
)

// WorkspaceResponse is the persisted workspace of a user
type WorkspaceResponse struct {
	State     workspace.State `json:"state"`
	Version   int             `json:"version"`
	UpdatedAt time.Time       `json:"updated_at,omitempty"`
	Skipped   []ledger.Skip   `json:"skipped,omitempty"`
}
