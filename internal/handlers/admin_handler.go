package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"pfm-api/internal/errors"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"
	"pfm-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

// adminUserView is what an admin sees of an account, never the password hash
type adminUserView struct {
	ID                  uuid.UUID  `json:"id"`
	Email               string     `json:"email"`
	DisplayName         string     `json:"display_name"`
	Role                string     `json:"role"`
	Locked              bool       `json:"is_locked"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LockedAt            *time.Time `json:"locked_at"`
	CreatedAt           time.Time  `json:"created_at"`
}

func newAdminUserView(u *models.User) adminUserView {
	return adminUserView{
		ID:                  u.ID,
		Email:               u.Email,
		DisplayName:         u.DisplayName,
		Role:                u.Role,
		Locked:              u.IsLocked(),
		FailedLoginAttempts: u.FailedLoginAttempts,
		LockedAt:            u.LockedAt,
		CreatedAt:           u.CreatedAt,
	}
}

// AdminHandler serves the /admin/users endpoints and the activity feeds
type AdminHandler struct {
	userRepo     repositories.UserRepositoryInterface
	auditService services.AuditServiceInterface
}

func NewAdminHandler(userRepo repositories.UserRepositoryInterface, auditService services.AuditServiceInterface) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, auditService: auditService}
}

// UnlockUser clears the failed login counter and lock of a user
// @Summary Unlock user account (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param userId path string true "User ID (UUID)"
// @Success 200 {object} SuccessResponse "User unlocked successfully"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_003 - Invalid user ID"
// @Failure 403 {object} errors.ErrorResponse "AUTH_005 - Requires admin role"
// @Failure 404 {object} errors.ErrorResponse "SYSTEM_007 - User not found"
// @Router /admin/users/{userId}/unlock [post]
func (h *AdminHandler) UnlockUser(c echo.Context) error {
	userID, ok := targetUser(c)
	if !ok {
		return sendInvalidID(c, "userId")
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	if err := h.userRepo.ResetFailedLoginAttempts(userID); err != nil {
		return SendSystemError(c, err)
	}

	adminID, _ := getUserIDFromContext(c)
	slog.InfoContext(c.Request().Context(), "admin unlocked user", "admin_id", adminID, "user_id", user.ID)

	return c.JSON(http.StatusOK, SuccessResponse{
		Message: "User account unlocked successfully",
		Data: map[string]interface{}{
			"user_id": user.ID,
			"email":   user.Email,
		},
	})
}

// GetUserByID retrieves a specific user by ID
// @Summary Get user by ID (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param userId path string true "User ID (UUID)"
// @Success 200 {object} SuccessResponse "User retrieved successfully"
// @Failure 404 {object} errors.ErrorResponse "SYSTEM_007 - User not found"
// @Router /admin/users/{userId} [get]
func (h *AdminHandler) GetUserByID(c echo.Context) error {
	userID, ok := targetUser(c)
	if !ok {
		return sendInvalidID(c, "userId")
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Data: newAdminUserView(user)})
}

// GetUserActivity lists the audit trail of a user, newest first
// @Summary Get user activity (admin)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param userId path string true "User ID (UUID)"
// @Param limit query int false "Number of results" default(50)
// @Param offset query int false "Pagination offset" default(0)
// @Success 200 {object} SuccessResponse "Audit entries with pagination metadata"
// @Router /admin/users/{userId}/activity [get]
func (h *AdminHandler) GetUserActivity(c echo.Context) error {
	userID, ok := targetUser(c)
	if !ok {
		return sendInvalidID(c, "userId")
	}
	return h.sendActivity(c, userID)
}

// GetMyActivity lists the authenticated user's own audit trail
// @Summary Get my activity
// @Tags Authentication
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Number of results" default(50)
// @Param offset query int false "Pagination offset" default(0)
// @Success 200 {object} SuccessResponse "Audit entries with pagination metadata"
// @Router /auth/me/activity [get]
func (h *AdminHandler) GetMyActivity(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}
	return h.sendActivity(c, userID)
}

func (h *AdminHandler) sendActivity(c echo.Context, userID uuid.UUID) error {
	limit := getIntParam(c, "limit", defaultActivityLimit)
	offset := getIntParam(c, "offset", 0)
	if limit < 1 || limit > maxActivityLimit {
		return SendError(c, errors.ValidationOutOfRange,
			errors.WithDetails("limit: must be between 1 and 200"))
	}
	if offset < 0 {
		return SendError(c, errors.ValidationOutOfRange,
			errors.WithDetails("offset: must not be negative"))
	}

	activities, total, err := h.auditService.GetUserActivity(userID, offset, limit)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{
		Data: activities,
		Meta: map[string]interface{}{
			"total":  total,
			"limit":  limit,
			"offset": offset,
		},
	})
}

// DeleteUser soft deletes a user
// @Summary Delete user (admin)
// @Description Cannot delete own account.
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param userId path string true "User ID (UUID)"
// @Success 200 {object} SuccessResponse "User deleted successfully"
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 - Cannot delete own account"
// @Failure 404 {object} errors.ErrorResponse "SYSTEM_007 - User not found"
// @Router /admin/users/{userId} [delete]
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	userID, ok := targetUser(c)
	if !ok {
		return sendInvalidID(c, "userId")
	}

	adminID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}
	if adminID == userID {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Cannot delete your own account"))
	}

	if _, err := h.userRepo.GetByID(userID); err != nil {
		return SendServiceError(c, err)
	}

	if err := h.userRepo.Delete(userID); err != nil {
		return SendSystemError(c, err)
	}

	slog.InfoContext(c.Request().Context(), "admin deleted user", "admin_id", adminID, "user_id", userID)
	return c.JSON(http.StatusOK, SuccessResponse{Message: "User deleted successfully"})
}

func targetUser(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("userId"))
	return id, err == nil
}
