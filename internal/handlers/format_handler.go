package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"pfm-api/internal/errors"
	"pfm-api/internal/format"

	"github.com/labstack/echo/v4"
)

// FormatQuery selects the value and rendering for GET /format
type FormatQuery struct {
	Value string `query:"value" validate:"required,max=32"`
	Kind  string `query:"kind" validate:"omitempty,oneof=currency percent expense_ratio"`
}

// FormatHandler exposes the display formatting used across the app so
// clients render amounts the same way the server does
type FormatHandler struct{}

// NewFormatHandler creates a new format handler
func NewFormatHandler() *FormatHandler {
	return &FormatHandler{}
}

// Format renders a number for display
// @Summary Format a value
// @Tags Format
// @Produce json
// @Param value query string true "Number to format"
// @Param kind query string false "currency (default), percent or expense_ratio"
// @Success 200 {object} object{formatted=string}
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001/003 - Invalid query"
// @Router /format [get]
func (h *FormatHandler) Format(c echo.Context) error {
	var q FormatQuery
	if err := c.Bind(&q); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	value, err := strconv.ParseFloat(strings.TrimSpace(q.Value), 64)
	if err != nil {
		return SendError(c, errors.ValidationInvalidFormat, errors.WithDetails("value: must be a number"))
	}

	var formatted string
	switch q.Kind {
	case "percent":
		formatted = format.FormatPercent(value)
	case "expense_ratio":
		formatted = format.FormatPercentPlaces(value, 2)
	default:
		formatted = format.FormatCurrency(value)
	}

	return c.JSON(http.StatusOK, map[string]string{"formatted": formatted})
}
