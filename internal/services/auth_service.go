package services

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pfm-api/internal/dto"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
)

// AuthService handles registration, login and logout
type AuthService struct {
	userRepo             repositories.UserRepositoryInterface
	auditRepo            repositories.AuditLogRepositoryInterface
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface
	settingsRepo         repositories.SettingsRepositoryInterface
	passwordService      PasswordServiceInterface
	tokenService         TokenServiceInterface
	metrics              MetricsRecorderInterface
	logger               *slog.Logger
	maxFailedAttempts    int
	now                  func() time.Time
}

type AuthOption func(*AuthService)

// WithMaxFailedAttempts sets how many consecutive bad passwords lock an
// account. Non-positive values keep models.MaxFailedLoginAttempts.
func WithMaxFailedAttempts(n int) AuthOption {
	return func(s *AuthService) {
		if n > 0 {
			s.maxFailedAttempts = n
		}
	}
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	auditRepo repositories.AuditLogRepositoryInterface,
	blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface,
	settingsRepo repositories.SettingsRepositoryInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
	opts ...AuthOption,
) AuthServiceInterface {
	s := &AuthService{
		userRepo:             userRepo,
		auditRepo:            auditRepo,
		blacklistedTokenRepo: blacklistedTokenRepo,
		settingsRepo:         settingsRepo,
		passwordService:      passwordService,
		tokenService:         tokenService,
		metrics:              metrics,
		logger:               logger,
		maxFailedAttempts:    models.MaxFailedLoginAttempts,
		now:                  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a user and their default settings
func (s *AuthService) Register(req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error) {
	from := origin{ip: ipAddress, userAgent: userAgent}
	existing, err := s.userRepo.GetByEmail(req.Email)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		s.audit(from, nil, models.AuditActionRegister, "", map[string]interface{}{
			"email":  req.Email,
			"reason": "email_already_exists",
		})
		return nil, ErrUserAlreadyExists
	}

	hashed, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hashed,
		DisplayName:  req.DisplayName,
		Role:         models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.settingsRepo.Upsert(models.DefaultUserSettings(user.ID)); err != nil {
		// Settings are created lazily on first read as well.
		s.logger.Warn("failed to create default settings", "error", err, "user_id", user.ID)
	}

	s.audit(from, &user.ID, models.AuditActionRegister, user.ID.String(), nil)
	s.recordAuthEvent("register")

	return user, nil
}

// Login verifies credentials and issues a session token. Accounts lock after
// repeated failures.
func (s *AuthService) Login(req *dto.LoginRequest, ipAddress, userAgent string) (*dto.TokenResponse, error) {
	from := origin{ip: ipAddress, userAgent: userAgent}
	user, err := s.userRepo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.failedLogin(from, nil, req.Email, "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsLocked() {
		s.failedLogin(from, &user.ID, req.Email, "account_locked")
		return nil, ErrAccountLocked
	}

	if !s.passwordService.ComparePassword(req.Password, user.PasswordHash) {
		locked := user.RecordFailedLogin(s.maxFailedAttempts, s.now())
		if err := s.userRepo.UpdateFailedLoginAttempts(user); err != nil {
			s.logger.Error("failed to update login attempts", "error", err, "user_id", user.ID)
		}
		if locked {
			s.audit(from, &user.ID, models.AuditActionAccountLocked, user.ID.String(), nil)
		}
		s.failedLogin(from, &user.ID, req.Email, "invalid_password")
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.ResetFailedLoginAttempts(user.ID); err != nil {
		s.logger.Warn("failed to reset login attempts", "error", err, "user_id", user.ID)
	}

	token, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.audit(from, &user.ID, models.AuditActionLogin, user.ID.String(), nil)
	s.recordAuthEvent("login")

	return &dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout blacklists the token. Invalid or expired tokens are blacklisted by
// their ID when it can be read, and logout still succeeds.
func (s *AuthService) Logout(accessToken, ipAddress, userAgent string) error {
	from := origin{ip: ipAddress, userAgent: userAgent}
	claims, err := s.tokenService.ValidateAccessToken(accessToken)
	if err != nil {
		jti, _ := s.tokenService.GetJTI(accessToken)
		if jti != "" {
			if err := s.blacklistToken(jti, uuid.Nil, models.BlacklistReasonExpired, time.Now().Add(24*time.Hour)); err != nil {
				s.logger.Error("failed to blacklist expired token", "error", err, "jti", jti)
			}
		}
		return nil
	}

	userID, _ := uuid.Parse(claims.UserID)
	expiresAt := time.Now().Add(24 * time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := s.blacklistToken(claims.ID, userID, models.BlacklistReasonLogout, expiresAt); err != nil {
		s.logger.Error("failed to blacklist token", "error", err, "jti", claims.ID, "user_id", userID)
	}

	s.audit(from, &userID, models.AuditActionLogout, userID.String(), nil)
	s.recordAuthEvent("logout")

	return nil
}

// IsTokenBlacklisted reports whether a token ID was revoked at logout
func (s *AuthService) IsTokenBlacklisted(jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	token, err := s.blacklistedTokenRepo.GetByJTI(jti)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return token.Revokes(time.Now()), nil
}

func (s *AuthService) GetProfile(userID uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(userID)
}

func (s *AuthService) blacklistToken(jti string, userID uuid.UUID, reason string, expiresAt time.Time) error {
	return s.blacklistedTokenRepo.Create(&models.BlacklistedToken{
		JTI:       jti,
		UserID:    userID,
		Reason:    reason,
		ExpiresAt: expiresAt,
	})
}

func (s *AuthService) failedLogin(o origin, userID *uuid.UUID, email, reason string) {
	s.audit(o, userID, models.AuditActionFailedLogin, "", map[string]interface{}{
		"email":  email,
		"reason": reason,
	})
	s.recordAuthEvent("failed_login")
}

func (s *AuthService) recordAuthEvent(eventType string) {
	if s.metrics == nil {
		return
	}
	s.metrics.IncrementCounter(MetricAuthEvent, map[string]string{"event_type": eventType})
}

// origin is the client an auth event came from
type origin struct {
	ip        string
	userAgent string
}

// audit writes an entry against the user resource. Failures are logged, an
// audit outage never blocks a login.
func (s *AuthService) audit(from origin, userID *uuid.UUID, action, resourceID string, metadata map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:     userID,
		Action:     action,
		Resource:   "user",
		ResourceID: resourceID,
		IPAddress:  from.ip,
		UserAgent:  from.userAgent,
		Metadata:   metadata,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		s.logger.Error("failed to create audit log", "error", err, "action", action, "resource_id", resourceID)
	}
}
