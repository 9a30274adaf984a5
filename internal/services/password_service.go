package services

import (
	"errors"
	"fmt"
	"regexp"

	"pfm-api/internal/config"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultBCryptCost = 12

	MinPasswordLength = 12
	MaxPasswordLength = 72 // bcrypt ignores input past 72 bytes
)

var (
	ErrPasswordEmpty       = errors.New("password cannot be empty")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrPasswordTooLong     = fmt.Errorf("password must not exceed %d characters", MaxPasswordLength)
	ErrPasswordNoUppercase = errors.New("password must contain at least one uppercase letter")
	ErrPasswordNoLowercase = errors.New("password must contain at least one lowercase letter")
	ErrPasswordNoNumber    = errors.New("password must contain at least one number")
	ErrPasswordNoSpecial   = errors.New("password must contain at least one special character")

	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	numberRegex    = regexp.MustCompile(`[0-9]`)
	specialRegex   = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{}|;:,.<>?]`)
)

// PasswordService hashes passwords with bcrypt and enforces the password policy
type PasswordService struct {
	cost      int
	minLength int
}

// NewPasswordService builds the service from the security config. Zero values
// fall back to the defaults.
func NewPasswordService(cfg *config.SecurityConfig) PasswordServiceInterface {
	ps := &PasswordService{cost: DefaultBCryptCost, minLength: MinPasswordLength}
	if cfg != nil {
		if cfg.BCryptCost >= bcrypt.MinCost && cfg.BCryptCost <= bcrypt.MaxCost {
			ps.cost = cfg.BCryptCost
		}
		if cfg.PasswordMinLength > 0 && cfg.PasswordMinLength <= MaxPasswordLength {
			ps.minLength = cfg.PasswordMinLength
		}
	}
	return ps
}

// ValidatePassword checks the length and character class rules
func (ps *PasswordService) ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrPasswordEmpty
	case len(password) < ps.minLength:
		return fmt.Errorf("%w: minimum is %d characters", ErrPasswordTooShort, ps.minLength)
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	case !uppercaseRegex.MatchString(password):
		return ErrPasswordNoUppercase
	case !lowercaseRegex.MatchString(password):
		return ErrPasswordNoLowercase
	case !numberRegex.MatchString(password):
		return ErrPasswordNoNumber
	case !specialRegex.MatchString(password):
		return ErrPasswordNoSpecial
	}
	return nil
}

// HashPassword validates and hashes a password using bcrypt
func (ps *PasswordService) HashPassword(password string) (string, error) {
	if err := ps.ValidatePassword(password); err != nil {
		return "", fmt.Errorf("password validation failed: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), ps.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword reports whether password matches the bcrypt hash
func (ps *PasswordService) ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// PasswordStrength scores a password from 0 to 100. Any password that passes
// ValidatePassword scores at least 80.
func (ps *PasswordService) PasswordStrength(password string) int {
	if password == "" {
		return 0
	}

	score := 0
	for _, threshold := range []int{8, 12, 16, 20} {
		if len(password) >= threshold {
			score += 10
		}
	}
	for _, re := range []*regexp.Regexp{uppercaseRegex, lowercaseRegex, numberRegex, specialRegex} {
		if re.MatchString(password) {
			score += 15
		}
	}

	unique := make(map[rune]struct{})
	for _, r := range password {
		unique[r] = struct{}{}
	}
	switch {
	case len(unique) > len(password)*3/4:
		score += 10
	case len(unique) > len(password)/2:
		score += 5
	}

	if ps.ValidatePassword(password) == nil && score < 80 {
		score = 80
	}
	if score > 100 {
		score = 100
	}
	return score
}
