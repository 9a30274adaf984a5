package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"pfm-api/internal/dto"
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"
	"pfm-api/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ChartHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockChartServiceInterface
	handler *ChartHandler
	e       *echo.Echo
	userID  uuid.UUID
	now     time.Time
}

func TestChartHandlerSuite(t *testing.T) {
	suite.Run(t, new(ChartHandlerSuite))
}

func (s *ChartHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockChartServiceInterface(s.ctrl)
	s.now = time.Date(2024, time.May, 17, 12, 0, 0, 0, time.UTC)
	s.handler = NewChartHandler(s.service)
	s.handler.now = func() time.Time { return s.now }
	s.e = echo.New()
	s.e.Validator = NewValidator()
	s.userID = uuid.New()
}

func (s *ChartHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ChartHandlerSuite) TestMonthlySpending_DefaultsToCurrentMonth() {
	s.service.EXPECT().MonthlySpending(s.userID, "2024-05").Return(&dto.MonthlySpendingResponse{
		Month:      "2024-05",
		Categories: []ledger.CategorySpend{},
		Total:      decimal.Zero,
	}, nil)

	c, rec := newAuthedContext(s.e, http.MethodGet, "/charts/monthly-spending", nil, s.userID)

	s.NoError(s.handler.MonthlySpending(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *ChartHandlerSuite) TestMonthlySpending_ExplicitMonth() {
	s.service.EXPECT().MonthlySpending(s.userID, "2023-12").Return(&dto.MonthlySpendingResponse{Month: "2023-12"}, nil)

	c, rec := newAuthedContext(s.e, http.MethodGet, "/charts/monthly-spending?month=2023-12", nil, s.userID)

	s.NoError(s.handler.MonthlySpending(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "2023-12")
}

func (s *ChartHandlerSuite) TestMonthlySpending_BadMonth() {
	c, _ := newAuthedContext(s.e, http.MethodGet, "/charts/monthly-spending?month=May", nil, s.userID)

	s.Error(s.handler.MonthlySpending(c))
}

func (s *ChartHandlerSuite) TestCashFlow() {
	s.service.EXPECT().CashFlow(s.userID, s.now).Return([]ledger.CashFlowPoint{{Month: "2024-05"}}, nil)

	c, rec := newAuthedContext(s.e, http.MethodGet, "/charts/cash-flow", nil, s.userID)

	s.NoError(s.handler.CashFlow(c))

	var response dto.CashFlowResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Len(response.Points, 1)
}

func (s *ChartHandlerSuite) TestNetWorthHistory() {
	s.service.EXPECT().NetWorthHistory(s.userID).Return([]models.NetWorthSnapshot{
		{ID: uuid.New(), NetWorth: decimal.NewFromInt(1000)},
		{ID: uuid.New(), NetWorth: decimal.NewFromInt(1500)},
	}, nil)

	c, rec := newAuthedContext(s.e, http.MethodGet, "/charts/net-worth", nil, s.userID)

	s.NoError(s.handler.NetWorthHistory(c))

	var response dto.NetWorthHistoryResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Len(response.Snapshots, 2)
}

func (s *ChartHandlerSuite) TestTakeSnapshot() {
	s.service.EXPECT().TakeSnapshot(s.userID, s.now).Return(&models.NetWorthSnapshot{ID: uuid.New(), NetWorth: decimal.NewFromInt(900)}, nil)

	c, rec := newAuthedContext(s.e, http.MethodPost, "/charts/net-worth/snapshot", nil, s.userID)

	s.NoError(s.handler.TakeSnapshot(c))
	s.Equal(http.StatusCreated, rec.Code)
}
