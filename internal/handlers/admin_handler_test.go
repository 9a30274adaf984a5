package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"pfm-api/internal/models"
	"pfm-api/internal/repositories"
	"pfm-api/internal/repositories/repository_mocks"
	"pfm-api/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
)

func TestAdminHandler(t *testing.T) {
	suite.Run(t, new(AdminHandlerSuite))
}

type AdminHandlerSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	handler      *AdminHandler
	userRepo     *repository_mocks.MockUserRepositoryInterface
	auditService *service_mocks.MockAuditServiceInterface
	e            *echo.Echo
	adminID      uuid.UUID
}

func (s *AdminHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.userRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.auditService = service_mocks.NewMockAuditServiceInterface(s.ctrl)
	s.handler = NewAdminHandler(s.userRepo, s.auditService)
	s.e = echo.New()
	s.adminID = uuid.New()
}

func (s *AdminHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AdminHandlerSuite) createTestUser(role string) *models.User {
	return &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("test_%s@example.com", uuid.New().String()),
		DisplayName:  "Test User",
		Role:         role,
		PasswordHash: "hashedpassword123",
	}
}

func (s *AdminHandlerSuite) TestUnlockUser() {
	lockedAt := time.Now()
	lockedUser := s.createTestUser(models.RoleUser)
	lockedUser.FailedLoginAttempts = 5
	lockedUser.LockedAt = &lockedAt

	tests := []struct {
		name           string
		userID         string
		expectedStatus int
		expectedError  string
		setupMocks     func()
	}{
		{
			name:           "successful unlock",
			userID:         lockedUser.ID.String(),
			expectedStatus: http.StatusOK,
			setupMocks: func() {
				s.userRepo.EXPECT().GetByID(lockedUser.ID).Return(lockedUser, nil)
				s.userRepo.EXPECT().ResetFailedLoginAttempts(lockedUser.ID).Return(nil)
			},
		},
		{
			name:           "invalid user id",
			userID:         "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_003",
			setupMocks:     func() {},
		},
		{
			name:           "user not found",
			userID:         lockedUser.ID.String(),
			expectedStatus: http.StatusNotFound,
			expectedError:  "SYSTEM_007",
			setupMocks: func() {
				s.userRepo.EXPECT().GetByID(lockedUser.ID).Return(nil, repositories.ErrUserNotFound)
			},
		},
		{
			name:           "reset fails",
			userID:         lockedUser.ID.String(),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "SYSTEM_001",
			setupMocks: func() {
				s.userRepo.EXPECT().GetByID(lockedUser.ID).Return(lockedUser, nil)
				s.userRepo.EXPECT().ResetFailedLoginAttempts(lockedUser.ID).Return(errors.New("db down"))
			},
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			tt.setupMocks()

			c, rec := newAuthedContext(s.e, http.MethodPost, "/", nil, s.adminID)
			withParam(c, "userId", tt.userID)

			s.NoError(s.handler.UnlockUser(c))
			s.Equal(tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				s.Contains(rec.Body.String(), tt.expectedError)
			}
		})
	}
}

func (s *AdminHandlerSuite) TestGetUserByID() {
	user := s.createTestUser(models.RoleUser)
	s.userRepo.EXPECT().GetByID(user.ID).Return(user, nil)

	c, rec := newAuthedContext(s.e, http.MethodGet, "/", nil, s.adminID)
	withParam(c, "userId", user.ID.String())

	s.NoError(s.handler.GetUserByID(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), user.Email)
	s.NotContains(rec.Body.String(), "hashedpassword123")
}

func (s *AdminHandlerSuite) TestGetUserActivity() {
	userID := uuid.New()

	s.Run("default paging", func() {
		s.auditService.EXPECT().GetUserActivity(userID, 0, 50).Return([]*models.AuditLog{
			{ID: uuid.New(), UserID: &userID, Action: models.AuditActionImport, Resource: "account"},
		}, int64(1), nil)

		c, rec := newAuthedContext(s.e, http.MethodGet, "/", nil, s.adminID)
		withParam(c, "userId", userID.String())

		s.NoError(s.handler.GetUserActivity(c))
		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), models.AuditActionImport)
		s.Contains(rec.Body.String(), `"total":1`)
	})

	s.Run("limit out of range", func() {
		c, rec := newAuthedContext(s.e, http.MethodGet, "/?limit=500", nil, s.adminID)
		withParam(c, "userId", userID.String())

		s.NoError(s.handler.GetUserActivity(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "VALIDATION_004")
	})
}

func (s *AdminHandlerSuite) TestGetMyActivity() {
	userID := uuid.New()
	s.auditService.EXPECT().GetUserActivity(userID, 10, 5).Return([]*models.AuditLog{}, int64(12), nil)

	c, rec := newAuthedContext(s.e, http.MethodGet, "/auth/me/activity?limit=5&offset=10", nil, userID)

	s.NoError(s.handler.GetMyActivity(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"offset":10`)
}

func (s *AdminHandlerSuite) TestDeleteUser() {
	target := s.createTestUser(models.RoleUser)

	s.Run("cannot delete self", func() {
		c, rec := newAuthedContext(s.e, http.MethodDelete, "/", nil, s.adminID)
		withParam(c, "userId", s.adminID.String())

		s.NoError(s.handler.DeleteUser(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "Cannot delete your own account")
	})

	s.Run("deleted", func() {
		s.userRepo.EXPECT().GetByID(target.ID).Return(target, nil)
		s.userRepo.EXPECT().Delete(target.ID).Return(nil)

		c, rec := newAuthedContext(s.e, http.MethodDelete, "/", nil, s.adminID)
		withParam(c, "userId", target.ID.String())

		s.NoError(s.handler.DeleteUser(c))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("not found", func() {
		s.userRepo.EXPECT().GetByID(target.ID).Return(nil, repositories.ErrUserNotFound)

		c, rec := newAuthedContext(s.e, http.MethodDelete, "/", nil, s.adminID)
		withParam(c, "userId", target.ID.String())

		s.NoError(s.handler.DeleteUser(c))
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
