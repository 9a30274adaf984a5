package repositories

import (
	"testing"
	"time"

	"pfm-api/internal/database"
	"pfm-api/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestUserRepository(t *testing.T) {
	suite.Run(t, new(UserRepositorySuite))
}

type UserRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo UserRepositoryInterface
}

func (s *UserRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewUserRepository(s.db.DB)
}

func (s *UserRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *UserRepositorySuite) newUser() *models.User {
	return &models.User{
		Email:        gofakeit.Email(),
		PasswordHash: "hashed_password",
		DisplayName:  gofakeit.Name(),
	}
}

func (s *UserRepositorySuite) TestCreate() {
	user := s.newUser()

	err := s.repo.Create(user)
	s.NoError(err)
	s.NotEqual(uuid.Nil, user.ID)
	s.Equal(models.RoleUser, user.Role)
	s.NotZero(user.CreatedAt)

	duplicate := s.newUser()
	duplicate.Email = user.Email
	s.ErrorIs(s.repo.Create(duplicate), ErrUserAlreadyExists)

	s.Error(s.repo.Create(nil))
}

func (s *UserRepositorySuite) TestGetByEmail() {
	user := s.newUser()
	user.Email = "Sam@Example.com"
	s.Require().NoError(s.repo.Create(user))

	found, err := s.repo.GetByEmail(" SAM@example.com ")
	s.Require().NoError(err)
	s.Equal(user.ID, found.ID)

	_, err = s.repo.GetByEmail("nobody@example.com")
	s.ErrorIs(err, ErrUserNotFound)
}

func (s *UserRepositorySuite) TestFailedLoginAttempts() {
	user := s.newUser()
	s.Require().NoError(s.repo.Create(user))

	for i := 0; i < models.MaxFailedLoginAttempts; i++ {
		user.RecordFailedLogin(models.MaxFailedLoginAttempts, time.Now())
	}
	s.Require().NoError(s.repo.UpdateFailedLoginAttempts(user))

	locked, err := s.repo.GetByID(user.ID)
	s.Require().NoError(err)
	s.True(locked.IsLocked())
	s.Equal(models.MaxFailedLoginAttempts, locked.FailedLoginAttempts)

	s.Require().NoError(s.repo.ResetFailedLoginAttempts(user.ID))

	unlocked, err := s.repo.GetByID(user.ID)
	s.Require().NoError(err)
	s.False(unlocked.IsLocked())
	s.Zero(unlocked.FailedLoginAttempts)
	s.NotNil(unlocked.LastLoginAt)
}

func (s *UserRepositorySuite) TestUpdateAndDelete() {
	user := s.newUser()
	s.Require().NoError(s.repo.Create(user))

	user.DisplayName = "Updated"
	s.Require().NoError(s.repo.Update(user))

	updated, err := s.repo.GetByID(user.ID)
	s.Require().NoError(err)
	s.Equal("Updated", updated.DisplayName)

	s.Require().NoError(s.repo.Delete(user.ID))
	_, err = s.repo.GetByID(user.ID)
	s.ErrorIs(err, ErrUserNotFound)
	s.ErrorIs(s.repo.Delete(user.ID), ErrUserNotFound)
}

func TestBlacklistedTokenRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.CleanupTestDB(t, db)
	repo := NewBlacklistedTokenRepository(db.DB)

	user := database.CreateTestUser(t, db, "token@example.com")

	require.NoError(t, repo.Create(&models.BlacklistedToken{JTI: "active", UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, repo.Create(&models.BlacklistedToken{JTI: "expired", UserID: user.ID, ExpiresAt: time.Now().Add(-time.Hour)}))
	// Blacklisting the same token twice is a no-op.
	require.NoError(t, repo.Create(&models.BlacklistedToken{JTI: "active", UserID: user.ID, ExpiresAt: time.Now()}))

	found, err := repo.GetByJTI("active")
	require.NoError(t, err)
	assert.Equal(t, models.BlacklistReasonLogout, found.Reason)

	deleted, err := repo.DeleteExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.GetByJTI("expired")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestAuditLogRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.CleanupTestDB(t, db)
	repo := NewAuditLogRepository(db.DB)

	user := database.CreateTestUser(t, db, "audit@example.com")
	for _, action := range []string{models.AuditActionLogin, models.AuditActionImport, models.AuditActionLogin} {
		require.NoError(t, repo.Create(&models.AuditLog{UserID: &user.ID, Action: action, Resource: "test"}))
	}

	logs, total, err := repo.GetByUserID(user.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, logs, 2)

	_, total, err = repo.GetByAction(models.AuditActionLogin, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	deleted, err := repo.DeleteOlderThan(-time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	assert.Error(t, repo.Create(nil))
}
