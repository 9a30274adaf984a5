package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	MaxFailedLoginAttempts = 5
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// User owns accounts, categories and a workspace. Emails are stored
// lowercased and unique.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Email               string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash        string         `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName         string         `gorm:"type:varchar(100)" json:"display_name,omitempty"`
	Role                string         `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	FailedLoginAttempts int            `gorm:"default:0" json:"-"`
	LockedAt            *time.Time     `gorm:"index" json:"locked_at,omitempty"`
	LastLoginAt         *time.Time     `gorm:"index" json:"last_login_at,omitempty"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	Accounts []Account `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if now := time.Now(); u.CreatedAt.IsZero() {
		u.CreatedAt, u.UpdatedAt = now, now
	}
	return u.Validate()
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// Map-based updates carry an empty struct.
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}
	return u.Validate()
}

func (u *User) Validate() error {
	switch {
	case u.Email == "":
		return errors.New("email is required")
	case !emailRegex.MatchString(u.Email):
		return errors.New("invalid email format")
	case len(u.DisplayName) > 100:
		return errors.New("display name too long")
	case u.Role != RoleUser && u.Role != RoleAdmin:
		return fmt.Errorf("invalid role: %s", u.Role)
	}
	return nil
}

func (u *User) IsLocked() bool {
	return u.LockedAt != nil
}

// RecordFailedLogin counts a bad password and locks the account once limit
// consecutive failures are reached. It reports whether this call locked it.
func (u *User) RecordFailedLogin(limit int, now time.Time) bool {
	if limit <= 0 {
		limit = MaxFailedLoginAttempts
	}
	u.FailedLoginAttempts++
	if u.IsLocked() || u.FailedLoginAttempts < limit {
		return false
	}
	u.LockedAt = &now
	return true
}

func (u *User) TableName() string {
	return "users"
}
