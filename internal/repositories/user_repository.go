package repositories

import (
	"errors"
	"fmt"
	"strings"

	"pfm-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	errNilUser = errors.New("user cannot be nil")
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryInterface {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	if user == nil {
		return errNilUser
	}
	err := r.db.Create(user).Error
	switch {
	case err == nil:
		return nil
	case isDuplicateKeyError(err):
		return ErrUserAlreadyExists
	default:
		return fmt.Errorf("failed to create user: %w", err)
	}
}

func (r *userRepository) GetByID(id uuid.UUID) (*models.User, error) {
	return r.first("id = ?", id)
}

// GetByEmail matches the normalized address, emails are stored lowercased
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	return r.first("email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) first(query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := r.db.Where(query, arg).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if user == nil {
		return errNilUser
	}
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// UpdateFailedLoginAttempts persists only the lockout columns so a concurrent
// profile edit is not overwritten
func (r *userRepository) UpdateFailedLoginAttempts(user *models.User) error {
	if user == nil {
		return errNilUser
	}
	return r.updateLogin(user.ID, map[string]interface{}{
		"failed_login_attempts": user.FailedLoginAttempts,
		"locked_at":             user.LockedAt,
	})
}

// ResetFailedLoginAttempts clears the lockout and stamps last_login_at
func (r *userRepository) ResetFailedLoginAttempts(userID uuid.UUID) error {
	return r.updateLogin(userID, map[string]interface{}{
		"failed_login_attempts": 0,
		"locked_at":             nil,
		"last_login_at":         gorm.Expr("CURRENT_TIMESTAMP"),
	})
}

func (r *userRepository) updateLogin(userID uuid.UUID, columns map[string]interface{}) error {
	if err := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(columns).Error; err != nil {
		return fmt.Errorf("failed to update login state: %w", err)
	}
	return nil
}

// Delete soft deletes the user, GetByID and GetByEmail stop finding them
func (r *userRepository) Delete(userID uuid.UUID) error {
	result := r.db.Where("id = ?", userID).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
