package middleware

import (
	"errors"

	apperrors "pfm-api/internal/errors"
	"pfm-api/internal/handlers"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"
	"pfm-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// DefaultTokenCookie is the session cookie read when no Authorization header is sent
const DefaultTokenCookie = "token"

// RequireAuth creates a middleware that requires a valid session token, read from
// the Authorization header or the session cookie, that has not been revoked by logout
func RequireAuth(tokenService services.TokenServiceInterface, blacklistedTokenRepo repositories.BlacklistedTokenRepositoryInterface, cookieName string) echo.MiddlewareFunc {
	if cookieName == "" {
		cookieName = DefaultTokenCookie
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, code, ok := readToken(c, tokenService, cookieName)
			if !ok {
				return handlers.SendError(c, code)
			}

			claims, err := tokenService.ValidateAccessToken(token)
			if err != nil {
				if errors.Is(err, services.ErrExpiredToken) {
					return handlers.SendError(c, apperrors.AuthExpiredToken)
				}
				return handlers.SendError(c, apperrors.AuthInvalidTokenFormat)
			}

			revoked, err := blacklistedTokenRepo.GetByJTI(claims.ID)
			switch {
			case err == nil && revoked != nil:
				return handlers.SendError(c, apperrors.AuthInvalidTokenFormat, apperrors.WithDetails("Token has been revoked"))
			case err != nil && !errors.Is(err, repositories.ErrTokenNotFound):
				return handlers.SendSystemError(c, err)
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return handlers.SendError(c, apperrors.AuthInvalidTokenFormat, apperrors.WithDetails("Invalid user ID in token"))
			}

			c.Set("user_id", userID)
			c.Set("user_email", claims.Email)
			c.Set("user_role", claims.Role)
			c.Set("token_jti", claims.ID)
			c.Set("access_token", token)
			c.Set("is_admin", claims.IsAdmin())

			return next(c)
		}
	}
}

// readToken prefers the Authorization header and falls back to the session cookie
func readToken(c echo.Context, tokenService services.TokenServiceInterface, cookieName string) (string, apperrors.ErrorCode, bool) {
	if header := c.Request().Header.Get("Authorization"); header != "" {
		token, err := tokenService.ExtractTokenFromHeader(header)
		if err != nil {
			return "", apperrors.AuthInvalidTokenFormat, false
		}
		return token, "", true
	}

	cookie, err := c.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return "", apperrors.AuthMissingToken, false
	}
	return cookie.Value, "", true
}

// RequireRole creates a middleware that requires a specific role
func RequireRole(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole, ok := c.Get("user_role").(string)
			if !ok {
				return handlers.SendError(c, apperrors.AuthInvalidTokenFormat, apperrors.WithDetails("User role not found in token"))
			}

			for _, role := range requiredRoles {
				if userRole == role {
					return next(c)
				}
			}

			return handlers.SendError(c, apperrors.AuthInsufficientPermission)
		}
	}
}

// RequireAdmin is a convenience middleware that requires admin role
func RequireAdmin() echo.MiddlewareFunc {
	return RequireRole(models.RoleAdmin)
}
