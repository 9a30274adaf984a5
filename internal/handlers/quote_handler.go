package handlers

import (
	"net/http"
	"strings"

	"pfm-api/internal/dto"
	"pfm-api/internal/services"

	"github.com/labstack/echo/v4"
)

// QuoteHandler serves latest market prices
type QuoteHandler struct {
	quoteService services.QuoteServiceInterface
}

// NewQuoteHandler creates a new quote handler
func NewQuoteHandler(quoteService services.QuoteServiceInterface) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// GetQuotes returns the latest price per symbol. Symbols the feed does not
// know are left out of the response.
// @Summary Latest quotes
// @Tags Quotes
// @Security BearerAuth
// @Produce json
// @Param symbols query string true "Comma separated ticker symbols"
// @Success 200 {object} dto.QuoteResponse
// @Failure 400 {object} errors.ErrorResponse "QUOTE_001 - Too many symbols"
// @Failure 503 {object} errors.ErrorResponse "QUOTE_002 - Feed unavailable"
// @Router /quotes [get]
func (h *QuoteHandler) GetQuotes(c echo.Context) error {
	var query dto.QuoteQuery
	if err := c.Bind(&query); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(query); err != nil {
		return err
	}

	quotes, err := h.quoteService.GetQuotes(c.Request().Context(), splitSymbols(query.Symbols))
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.QuoteResponse{Quotes: quotes})
}

func splitSymbols(raw string) []string {
	parts := strings.Split(raw, ",")
	symbols := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			symbols = append(symbols, part)
		}
	}
	return symbols
}
