package handlers

import (
	"context"
	"net/http"
	"testing"

	"pfm-api/internal/dto"
	"pfm-api/internal/fire"
	"pfm-api/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type FireHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockFireServiceInterface
	handler *FireHandler
	e       *echo.Echo
	userID  uuid.UUID
}

func TestFireHandlerSuite(t *testing.T) {
	suite.Run(t, new(FireHandlerSuite))
}

func (s *FireHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockFireServiceInterface(s.ctrl)
	s.handler = NewFireHandler(s.service)
	s.e = echo.New()
	s.e.Validator = NewValidator()
	s.userID = uuid.New()
}

func (s *FireHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *FireHandlerSuite) TestGetData() {
	s.service.EXPECT().GetData(s.userID).Return(&dto.FireDataResponse{
		CurrentPortfolio:    decimal.NewFromInt(250000),
		MonthlyInvestment:   decimal.NewFromInt(2000),
		AnnualContributions: decimal.NewFromInt(24000),
		WithdrawalRate:      decimal.NewFromInt(4),
	}, nil)

	c, rec := newAuthedContext(s.e, http.MethodGet, "/fire/data", nil, s.userID)

	s.NoError(s.handler.GetData(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"annual_contributions":"24000"`)
}

func (s *FireHandlerSuite) TestProject() {
	s.service.EXPECT().
		Project(gomock.Any()).
		DoAndReturn(func(req *dto.ProjectionRequest) (*fire.Projection, error) {
			s.Equal(40000.0, req.AnnualSpending)
			s.Equal(4.0, req.WithdrawalRatePercent)
			return &fire.Projection{Target: 1000000, YearsToFI: 14, ProjectedBalance: 1012345.67, Reachable: true}, nil
		})

	c, rec := newAuthedContext(s.e, http.MethodPost, "/fire/projection", map[string]float64{
		"annual_spending":      40000,
		"withdrawal_rate":      4,
		"current_portfolio":    250000,
		"annual_contributions": 24000,
		"expected_return":      7,
	}, s.userID)

	s.NoError(s.handler.Project(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"years_to_fi":14`)
	s.Contains(rec.Body.String(), `"target_formatted":"$1,000,000.00"`)
}

func (s *FireHandlerSuite) TestProject_ZeroWithdrawalRate() {
	c, _ := newAuthedContext(s.e, http.MethodPost, "/fire/projection", map[string]float64{
		"annual_spending": 40000,
		"withdrawal_rate": 0,
	}, s.userID)

	s.Error(s.handler.Project(c))
}

func (s *FireHandlerSuite) TestMonteCarlo() {
	s.service.EXPECT().
		MonteCarlo(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req *dto.MonteCarloRequest) (*fire.MonteCarloResult, error) {
			s.Require().NotNil(req.Seed)
			s.Equal(int64(7), *req.Seed)
			return &fire.MonteCarloResult{SuccessProbability: 0.875, Successes: 875, Simulations: 1000}, nil
		})

	c, rec := newAuthedContext(s.e, http.MethodPost, "/fire/monte-carlo", map[string]interface{}{
		"initial":             100000,
		"annual_contribution": 20000,
		"years":               30,
		"mean_return":         0.07,
		"volatility":          0.15,
		"inflation":           0.03,
		"annual_withdrawal":   40000,
		"simulations":         1000,
		"seed":                7,
	}, s.userID)

	s.NoError(s.handler.MonteCarlo(c))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"success_formatted":"87.5%"`)
}

func (s *FireHandlerSuite) TestMonteCarlo_TooManySimulations() {
	c, _ := newAuthedContext(s.e, http.MethodPost, "/fire/monte-carlo", map[string]interface{}{
		"simulations": 1000001,
	}, s.userID)

	s.Error(s.handler.MonteCarlo(c))
}
