package services

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"pfm-api/internal/models"
	"pfm-api/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type DashboardServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	accountRepo     *repository_mocks.MockAccountRepositoryInterface
	transactionRepo *repository_mocks.MockTransactionRepositoryInterface
	categoryRepo    *repository_mocks.MockCategoryRepositoryInterface
	investmentRepo  *repository_mocks.MockInvestmentRepositoryInterface
	service         DashboardServiceInterface
	userID          uuid.UUID
}

func (s *DashboardServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.accountRepo = repository_mocks.NewMockAccountRepositoryInterface(s.ctrl)
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.investmentRepo = repository_mocks.NewMockInvestmentRepositoryInterface(s.ctrl)
	s.service = NewDashboardService(s.accountRepo, s.transactionRepo, s.categoryRepo, s.investmentRepo, slog.Default())
	s.userID = uuid.New()
}

func (s *DashboardServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestDashboardServiceSuite(t *testing.T) {
	suite.Run(t, new(DashboardServiceTestSuite))
}

func (s *DashboardServiceTestSuite) TestInitialData() {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	categoryID := uuid.New()

	s.accountRepo.EXPECT().GetByUserID(s.userID).Return([]models.Account{
		{AccountType: models.AccountTypeCash, Balance: decimal.NewFromInt(3000)},
		{AccountType: models.AccountTypeDebt, Balance: decimal.NewFromInt(500)},
	}, nil).Times(1)
	s.transactionRepo.EXPECT().GetByUserID(s.userID).Return([]models.Transaction{
		{Date: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-120), CategoryID: &categoryID},
		{Date: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-30)},
		{Date: time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(2500)},
		{Date: time.Date(2024, 4, 28, 0, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(-60)},
	}, nil).Times(1)
	s.categoryRepo.EXPECT().GetByUserID(s.userID).Return([]models.Category{
		{ID: categoryID, Name: "Groceries", PlannedAmount: decimal.NewFromInt(400)},
		{Name: "Dining", PlannedAmount: decimal.NewFromInt(150)},
	}, nil).Times(1)
	s.investmentRepo.EXPECT().GetByUserID(s.userID).Return(nil, nil).Times(1)

	resp, err := s.service.InitialData(s.userID, now)

	s.Require().NoError(err)
	s.Equal("2024-05", resp.KPIs.Month)
	s.True(resp.KPIs.TotalSpent.Equal(decimal.NewFromInt(150)))
	s.True(resp.KPIs.TotalBudget.Equal(decimal.NewFromInt(550)))
	s.True(resp.KPIs.NetWorth.Equal(decimal.NewFromInt(2500)))
	s.Equal(3, resp.KPIs.Uncategorized)
	s.NotNil(resp.Investments)

	s.Require().Len(resp.MonthlySpending, 2)
	s.Equal("2024-04", resp.MonthlySpending[0].Month)
	s.True(resp.MonthlySpending[0].Amount.Equal(decimal.NewFromInt(60)))
	s.Equal("2024-05", resp.MonthlySpending[1].Month)
	s.True(resp.MonthlySpending[1].Amount.Equal(decimal.NewFromInt(150)))
}

func (s *DashboardServiceTestSuite) TestInitialData_RepositoryError() {
	s.accountRepo.EXPECT().GetByUserID(s.userID).Return(nil, errors.New("db down")).Times(1)

	_, err := s.service.InitialData(s.userID, time.Now())
	s.Error(err)
}
