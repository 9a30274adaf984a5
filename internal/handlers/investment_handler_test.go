package handlers

import (
	"net/http"
	"testing"

	"pfm-api/internal/dto"
	"pfm-api/internal/models"
	"pfm-api/internal/services"
	"pfm-api/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type InvestmentHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockInvestmentServiceInterface
	handler *InvestmentHandler
	e       *echo.Echo
	userID  uuid.UUID
}

func TestInvestmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(InvestmentHandlerSuite))
}

func (s *InvestmentHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockInvestmentServiceInterface(s.ctrl)
	s.handler = NewInvestmentHandler(s.service)
	s.e = echo.New()
	s.e.Validator = NewValidator()
	s.userID = uuid.New()
}

func (s *InvestmentHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *InvestmentHandlerSuite) TestListInvestments() {
	s.service.EXPECT().List(s.userID).Return(&dto.InvestmentListResponse{
		Investments: []models.Investment{{ID: uuid.New(), Symbol: "VTI", Shares: decimal.NewFromInt(10)}},
		Total:       1,
		CostBasis:   decimal.NewFromInt(2000),
	}, nil)

	c, rec := newAuthedContext(s.e, http.MethodGet, "/investments", nil, s.userID)

	s.NoError(s.handler.ListInvestments(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "VTI")
}

func (s *InvestmentHandlerSuite) TestCreateInvestment() {
	s.Run("created", func() {
		s.service.EXPECT().Create(s.userID, gomock.Any()).Return(&models.Investment{ID: uuid.New(), Symbol: "VXUS"}, nil)

		c, rec := newAuthedContext(s.e, http.MethodPost, "/investments", map[string]string{
			"symbol":         "vxus",
			"shares":         "12.5",
			"purchase_price": "58.10",
			"purchase_date":  "2023-06-01",
		}, s.userID)

		s.NoError(s.handler.CreateInvestment(c))
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("bad purchase date", func() {
		c, _ := newAuthedContext(s.e, http.MethodPost, "/investments", map[string]string{
			"symbol":        "VTI",
			"shares":        "1",
			"purchase_date": "06/01/2023",
		}, s.userID)

		s.Error(s.handler.CreateInvestment(c))
	})

	s.Run("service rejects shares", func() {
		s.service.EXPECT().Create(s.userID, gomock.Any()).Return(nil, models.ErrInvalidShares)

		c, rec := newAuthedContext(s.e, http.MethodPost, "/investments", map[string]string{
			"symbol": "VTI",
			"shares": "0",
		}, s.userID)

		s.NoError(s.handler.CreateInvestment(c))
		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "INVESTMENT_002")
	})
}

func (s *InvestmentHandlerSuite) TestUpdateInvestment_NotFound() {
	investmentID := uuid.New()
	s.service.EXPECT().Update(s.userID, investmentID, gomock.Any()).Return(nil, services.ErrInvestmentNotFound)

	c, rec := newAuthedContext(s.e, http.MethodPut, "/", map[string]string{"shares": "3"}, s.userID)
	withParam(c, "id", investmentID.String())

	s.NoError(s.handler.UpdateInvestment(c))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "INVESTMENT_001")
}

func (s *InvestmentHandlerSuite) TestDeleteInvestment() {
	investmentID := uuid.New()
	s.service.EXPECT().Delete(s.userID, investmentID).Return(nil)

	c, rec := newAuthedContext(s.e, http.MethodDelete, "/", nil, s.userID)
	withParam(c, "id", investmentID.String())

	s.NoError(s.handler.DeleteInvestment(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *InvestmentHandlerSuite) TestFeeAnalysis() {
	s.service.EXPECT().FeeAnalysis(s.userID).Return(&dto.FeeAnalysisResponse{
		Holdings:            []dto.HoldingFee{{Symbol: "VTI", ExpenseRatio: 0.0003, Known: true}},
		AverageExpenseRatio: 0.0003,
		AverageFormatted:    "0.03%",
	}, nil)

	c, rec := newAuthedContext(s.e, http.MethodGet, "/investments/fees", nil, s.userID)

	s.NoError(s.handler.FeeAnalysis(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "0.03%")
}
