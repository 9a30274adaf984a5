package handlers

import (
	"net/http"
	"testing"

	"pfm-api/internal/services"
	"pfm-api/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type QuoteHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockQuoteServiceInterface
	handler *QuoteHandler
	e       *echo.Echo
}

func TestQuoteHandlerSuite(t *testing.T) {
	suite.Run(t, new(QuoteHandlerSuite))
}

func (s *QuoteHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockQuoteServiceInterface(s.ctrl)
	s.handler = NewQuoteHandler(s.service)
	s.e = echo.New()
	s.e.Validator = NewValidator()
}

func (s *QuoteHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *QuoteHandlerSuite) TestGetQuotes() {
	s.service.EXPECT().
		GetQuotes(gomock.Any(), []string{"VTI", "vxus"}).
		Return(map[string]float64{"VTI": 251.3, "VXUS": 61.02}, nil)

	c, rec := newAuthedContext(s.e, http.MethodGet, "/quotes?symbols=VTI,+vxus,,", nil, uuid.New())

	s.NoError(s.handler.GetQuotes(c))
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"quotes":{"VTI":251.3,"VXUS":61.02}}`, rec.Body.String())
}

func (s *QuoteHandlerSuite) TestGetQuotes_Errors() {
	testCases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"too many symbols", services.ErrTooManySymbols, http.StatusBadRequest, "QUOTE_001"},
		{"feed down", services.ErrQuoteFeedUnavailable, http.StatusServiceUnavailable, "QUOTE_002"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.service.EXPECT().GetQuotes(gomock.Any(), gomock.Any()).Return(nil, tc.err)

			c, rec := newAuthedContext(s.e, http.MethodGet, "/quotes?symbols=VTI", nil, uuid.New())

			s.NoError(s.handler.GetQuotes(c))
			s.Equal(tc.status, rec.Code)
			s.Contains(rec.Body.String(), tc.code)
		})
	}
}

func (s *QuoteHandlerSuite) TestGetQuotes_MissingSymbols() {
	c, _ := newAuthedContext(s.e, http.MethodGet, "/quotes", nil, uuid.New())

	s.Error(s.handler.GetQuotes(c))
}

func TestSplitSymbols(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, splitSymbols(" A ,B,"))
	assert.Empty(t, splitSymbols(" , "))
}
