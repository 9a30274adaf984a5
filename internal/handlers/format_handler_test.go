package handlers

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHandler_Format(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewFormatHandler()

	tests := []struct {
		name     string
		query    string
		expected string
	}{
		{"currency default", "value=-1234.5", `"-$1,234.50"`},
		{"percent", "value=0.75&kind=percent", `"75.0%"`},
		{"expense ratio", "value=0.0003&kind=expense_ratio", `"0.03%"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newAuthedContext(e, http.MethodGet, "/format?"+tc.query, nil, uuid.Nil)

			require.NoError(t, h.Format(c))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.expected)
		})
	}
}

func TestFormatHandler_InvalidValue(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewFormatHandler()

	c, rec := newAuthedContext(e, http.MethodGet, "/format?value=abc", nil, uuid.Nil)

	require.NoError(t, h.Format(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormatHandler_UnknownKind(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	h := NewFormatHandler()

	c, _ := newAuthedContext(e, http.MethodGet, "/format?value=1&kind=roman", nil, uuid.Nil)

	assert.Error(t, h.Format(c))
}
