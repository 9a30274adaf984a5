package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"pfm-api/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrUnauthorized is returned when user context is invalid
var ErrUnauthorized = fmt.Errorf("unauthorized")

// getUserIDFromContext reads the user ID stored by the auth middleware
func getUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.UUID{}, ErrUnauthorized
	}
	return userID, nil
}

// sendInvalidID answers 400 for a path parameter that is not a UUID
func sendInvalidID(c echo.Context, name string) error {
	return SendError(c, errors.ValidationInvalidFormat,
		errors.WithDetails(fmt.Sprintf("%s: must be a valid UUID", name)))
}

// sendInvalidBody answers 400 for a body or query that could not be bound
func sendInvalidBody(c echo.Context) error {
	return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid request body"))
}

func getIntParam(c echo.Context, name string, defaultValue int) int {
	param := c.QueryParam(name)
	if param == "" {
		return defaultValue
	}

	var value int
	if _, err := fmt.Sscanf(param, "%d", &value); err != nil {
		return defaultValue
	}

	return value
}

func getClientIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	if xri := c.Request().Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	return c.RealIP()
}

// sessionCookie builds the httpOnly cookie carrying the session token. A zero
// expiry clears the cookie.
func sessionCookie(name, value string, expiresAt time.Time, secure bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if expiresAt.IsZero() {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		return cookie
	}
	cookie.Expires = expiresAt
	cookie.MaxAge = int(time.Until(expiresAt).Seconds())
	return cookie
}
