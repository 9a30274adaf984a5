package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BlacklistReasonLogout  = "logout"
	BlacklistReasonExpired = "expired"
)

// BlacklistedToken is a revoked session token id. Rows can be purged once
// the token would have expired anyway.
type BlacklistedToken struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	JTI           string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"jti"`
	UserID        uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Reason        string    `gorm:"type:varchar(20);not null;default:'logout'" json:"reason"`
	ExpiresAt     time.Time `gorm:"not null;index" json:"expires_at"`
	BlacklistedAt time.Time `gorm:"not null" json:"blacklisted_at"`
}

// Revokes reports whether the entry still blocks its token at now. Once the
// token has expired on its own the entry is only waiting to be purged.
func (bt *BlacklistedToken) Revokes(now time.Time) bool {
	return now.Before(bt.ExpiresAt)
}

func (bt *BlacklistedToken) TableName() string {
	return "blacklisted_tokens"
}

func (bt *BlacklistedToken) BeforeCreate(tx *gorm.DB) error {
	if bt.ID == uuid.Nil {
		bt.ID = uuid.New()
	}
	if bt.BlacklistedAt.IsZero() {
		bt.BlacklistedAt = time.Now()
	}
	if bt.Reason == "" {
		bt.Reason = BlacklistReasonLogout
	}
	return nil
}
