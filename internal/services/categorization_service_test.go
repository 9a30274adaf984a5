package services

import (
	"context"
	"errors"
	"testing"

	"pfm-api/internal/dto"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"
	"pfm-api/internal/repositories/repository_mocks"
	"pfm-api/internal/rules"
	"pfm-api/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type CategorizationServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	categoryRepo    *repository_mocks.MockCategoryRepositoryInterface
	transactionRepo *repository_mocks.MockTransactionRepositoryInterface
	suggestionRepo  *repository_mocks.MockSuggestionRepositoryInterface
	auditService    *service_mocks.MockAuditServiceInterface
	auditLogger     *service_mocks.MockAuditLoggerInterface
	metrics         *service_mocks.MockMetricsRecorderInterface
	service         CategorizationServiceInterface
	ctx             context.Context
	userID          uuid.UUID
}

func (s *CategorizationServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.transactionRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.suggestionRepo = repository_mocks.NewMockSuggestionRepositoryInterface(s.ctrl)
	s.auditService = service_mocks.NewMockAuditServiceInterface(s.ctrl)
	s.auditLogger = service_mocks.NewMockAuditLoggerInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.service = NewCategorizationService(
		s.categoryRepo,
		s.transactionRepo,
		s.suggestionRepo,
		nil,
		s.auditService,
		s.auditLogger,
		s.metrics,
		nil,
	)
	s.ctx = context.Background()
	s.userID = uuid.New()
}

func (s *CategorizationServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestCategorizationServiceSuite(t *testing.T) {
	suite.Run(t, new(CategorizationServiceTestSuite))
}

func (s *CategorizationServiceTestSuite) TestCreateCategory() {
	s.categoryRepo.EXPECT().Create(gomock.Any()).DoAndReturn(func(c *models.Category) error {
		c.ID = uuid.New()
		return nil
	}).Times(1)
	s.auditService.EXPECT().
		Record(s.userID, models.AuditActionCategoryCreated, "category", gomock.Any(), gomock.Any()).
		Times(1)

	category, err := s.service.CreateCategory(s.userID, &dto.CreateCategoryRequest{
		Name:          " Groceries ",
		PlannedAmount: "400",
		Rules:         []string{"safeway", "trader joe'?s"},
	})

	s.Require().NoError(err)
	s.Equal("Groceries", category.Name)
	s.Equal("400.00", category.PlannedAmount.StringFixed(2))
	s.Equal(models.StringList{"safeway", "trader joe'?s"}, category.Rules)
}

func (s *CategorizationServiceTestSuite) TestCreateCategory_RejectsNestedQuantifier() {
	_, err := s.service.CreateCategory(s.userID, &dto.CreateCategoryRequest{
		Name:  "Bad",
		Rules: []string{"(a+)+$"},
	})
	s.ErrorIs(err, rules.ErrNestedQuantifier)
}

func (s *CategorizationServiceTestSuite) TestCreateCategory_DuplicateName() {
	s.categoryRepo.EXPECT().Create(gomock.Any()).Return(repositories.ErrCategoryAlreadyExists).Times(1)

	_, err := s.service.CreateCategory(s.userID, &dto.CreateCategoryRequest{Name: "Groceries"})
	s.ErrorIs(err, ErrCategoryAlreadyExists)
}

func (s *CategorizationServiceTestSuite) TestAddRule() {
	categoryID := uuid.New()
	category := &models.Category{ID: categoryID, UserID: s.userID, Name: "Dining", Rules: models.StringList{"cafe"}}

	s.categoryRepo.EXPECT().GetByID(categoryID, s.userID).Return(category, nil).Times(1)
	s.categoryRepo.EXPECT().Update(category).Return(nil).Times(1)
	s.auditService.EXPECT().
		Record(s.userID, models.AuditActionCategoryUpdated, "category", categoryID.String(), gomock.Any()).
		Times(1)

	updated, err := s.service.AddRule(s.userID, categoryID, "^chipotle")

	s.Require().NoError(err)
	s.Equal(models.StringList{"cafe", "^chipotle"}, updated.Rules)
}

func (s *CategorizationServiceTestSuite) TestAddRule_InvalidPattern() {
	_, err := s.service.AddRule(s.userID, uuid.New(), "([a-z]")
	s.ErrorIs(err, rules.ErrInvalidPattern)
}

func (s *CategorizationServiceTestSuite) TestAddRule_Duplicate() {
	categoryID := uuid.New()
	s.categoryRepo.EXPECT().
		GetByID(categoryID, s.userID).
		Return(&models.Category{ID: categoryID, Rules: models.StringList{"cafe"}}, nil).
		Times(1)

	_, err := s.service.AddRule(s.userID, categoryID, "cafe")
	s.ErrorIs(err, ErrDuplicateRule)
}

func (s *CategorizationServiceTestSuite) TestDeleteCategory_NotFound() {
	categoryID := uuid.New()
	s.categoryRepo.EXPECT().Delete(categoryID, s.userID).Return(repositories.ErrCategoryNotFound).Times(1)

	s.ErrorIs(s.service.DeleteCategory(s.userID, categoryID), ErrCategoryNotFound)
}

func (s *CategorizationServiceTestSuite) TestApplyRules_FirstCategoryByNameWins() {
	dining := models.Category{ID: uuid.New(), Name: "Dining", Rules: models.StringList{"coffee"}}
	alpha := models.Category{ID: uuid.New(), Name: "Alpha", Rules: models.StringList{"shop"}}
	coffeeShop := models.Transaction{ID: uuid.New(), Description: "Blue Bottle Coffee Shop"}
	coffee := models.Transaction{ID: uuid.New(), Description: "COFFEE cart"}
	rent := models.Transaction{ID: uuid.New(), Description: "Rent"}

	s.categoryRepo.EXPECT().GetByUserID(s.userID).Return([]models.Category{dining, alpha}, nil).Times(1)
	s.transactionRepo.EXPECT().GetUncategorized(s.userID).Return([]models.Transaction{coffeeShop, coffee, rent}, nil).Times(1)
	s.transactionRepo.EXPECT().
		AssignCategories(map[uuid.UUID]uuid.UUID{
			coffeeShop.ID: alpha.ID,
			coffee.ID:     dining.ID,
		}).
		Return(int64(2), nil).
		Times(1)
	s.metrics.EXPECT().IncrementCounter(MetricRulesApplied, gomock.Any()).Times(1)
	s.metrics.EXPECT().RecordGauge(MetricCategorization, float64(2), gomock.Any()).Times(1)
	s.auditLogger.EXPECT().LogRulesApplied(s.ctx, s.userID, gomock.Len(2)).Times(1)
	s.auditService.EXPECT().Record(s.userID, models.AuditActionRulesApplied, "transaction", "", gomock.Any()).Times(1)

	resp, err := s.service.ApplyRules(s.ctx, s.userID)

	s.Require().NoError(err)
	s.Equal(int64(2), resp.Updated)
	s.Require().Len(resp.Assignments, 2)
	s.Equal("shop", resp.Assignments[0].Pattern)
	s.Equal("coffee", resp.Assignments[1].Pattern)
}

func (s *CategorizationServiceTestSuite) TestApplyRules_NothingToDo() {
	s.categoryRepo.EXPECT().GetByUserID(s.userID).Return([]models.Category{}, nil).Times(1)
	s.transactionRepo.EXPECT().GetUncategorized(s.userID).Return([]models.Transaction{}, nil).Times(1)
	s.transactionRepo.EXPECT().AssignCategories(gomock.Any()).Times(0)
	s.metrics.EXPECT().IncrementCounter(MetricRulesApplied, gomock.Any()).Times(1)
	s.metrics.EXPECT().RecordGauge(MetricCategorization, float64(0), gomock.Any()).Times(1)
	s.auditLogger.EXPECT().LogRulesApplied(s.ctx, s.userID, gomock.Len(0)).Times(1)
	s.auditService.EXPECT().Record(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

	resp, err := s.service.ApplyRules(s.ctx, s.userID)

	s.Require().NoError(err)
	s.Equal(int64(0), resp.Updated)
	s.NotNil(resp.Assignments)
}

func (s *CategorizationServiceTestSuite) TestCategorize_LearnsKeywords() {
	txID := uuid.New()
	categoryID := uuid.New()
	tx := &models.Transaction{ID: txID, UserID: s.userID, Description: "Whole Foods Market whole"}
	category := &models.Category{ID: categoryID, UserID: s.userID, Name: "Groceries"}

	s.transactionRepo.EXPECT().GetByID(txID, s.userID).Return(tx, nil).Times(1)
	s.categoryRepo.EXPECT().GetByID(categoryID, s.userID).Return(category, nil).Times(1)
	s.transactionRepo.EXPECT().UpdateCategory(txID, categoryID).Return(nil).Times(1)
	s.suggestionRepo.EXPECT().
		IncrementKeywords(s.userID, categoryID, []string{"whole", "foods", "market", "whole"}).
		Return(nil).
		Times(1)
	s.metrics.EXPECT().IncrementCounter(MetricCategorization, map[string]string{"method": models.CategorizationMethodManual}).Times(1)
	s.auditLogger.EXPECT().LogManualCategorization(s.ctx, s.userID, txID, categoryID, gomock.Any()).Times(1)

	resp, err := s.service.Categorize(s.ctx, s.userID, txID, categoryID)

	s.Require().NoError(err)
	s.Require().NotNil(resp.Transaction.CategoryID)
	s.Equal(categoryID, *resp.Transaction.CategoryID)
	s.Equal([]string{"whole", "foods", "market", "whole"}, resp.Keywords)
}

func (s *CategorizationServiceTestSuite) TestCategorize_LearningFailureDoesNotFail() {
	txID := uuid.New()
	categoryID := uuid.New()

	s.transactionRepo.EXPECT().GetByID(txID, s.userID).Return(&models.Transaction{ID: txID, Description: "Uber trip"}, nil).Times(1)
	s.categoryRepo.EXPECT().GetByID(categoryID, s.userID).Return(&models.Category{ID: categoryID}, nil).Times(1)
	s.transactionRepo.EXPECT().UpdateCategory(txID, categoryID).Return(nil).Times(1)
	s.suggestionRepo.EXPECT().IncrementKeywords(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("db down")).Times(1)
	s.metrics.EXPECT().IncrementCounter(gomock.Any(), gomock.Any()).Times(1)
	s.auditLogger.EXPECT().LogManualCategorization(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

	_, err := s.service.Categorize(s.ctx, s.userID, txID, categoryID)
	s.NoError(err)
}

func (s *CategorizationServiceTestSuite) TestCategorize_UnknownTransaction() {
	txID := uuid.New()
	s.transactionRepo.EXPECT().GetByID(txID, s.userID).Return(nil, repositories.ErrTransactionNotFound).Times(1)

	_, err := s.service.Categorize(s.ctx, s.userID, txID, uuid.New())
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *CategorizationServiceTestSuite) TestSuggest_RanksLearnedScores() {
	groceries := uuid.New()
	dining := uuid.New()

	s.suggestionRepo.EXPECT().
		GetByKeywords(s.userID, []string{"whole", "foods", "market"}).
		Return([]models.CategorizationSuggestion{
			{Keyword: "foods", CategoryID: dining, ConfidenceScore: 2},
			{Keyword: "whole", CategoryID: groceries, ConfidenceScore: 3},
			{Keyword: "market", CategoryID: groceries, ConfidenceScore: 1},
		}, nil).
		Times(1)
	s.categoryRepo.EXPECT().GetByID(groceries, s.userID).Return(&models.Category{ID: groceries, Name: "Groceries"}, nil).Times(1)
	s.metrics.EXPECT().IncrementCounter(MetricCategorization, gomock.Any()).Times(1)

	resp, err := s.service.Suggest(s.userID, "Whole Foods Market")

	s.Require().NoError(err)
	s.Require().NotNil(resp.CategoryID)
	s.Equal(groceries, *resp.CategoryID)
	s.Equal("Groceries", resp.CategoryName)
	s.Equal(4, resp.TotalScore)
	s.Equal("Groceries", resp.DefaultCategory)
}

func (s *CategorizationServiceTestSuite) TestSuggest_NoKeywords() {
	resp, err := s.service.Suggest(s.userID, "ATM fee")

	s.Require().NoError(err)
	s.Nil(resp.CategoryID)
	s.Empty(resp.Keywords)
}

func (s *CategorizationServiceTestSuite) TestSuggest_NothingLearned() {
	s.suggestionRepo.EXPECT().GetByKeywords(s.userID, []string{"netflix"}).Return(nil, nil).Times(1)

	resp, err := s.service.Suggest(s.userID, "NETFLIX")

	s.Require().NoError(err)
	s.Nil(resp.CategoryID)
	s.Equal("Entertainment", resp.DefaultCategory)
}

func (s *CategorizationServiceTestSuite) TestDefaultCategory() {
	name, ok := s.service.DefaultCategory("UBER *TRIP")
	s.True(ok)
	s.Equal("Transportation", name)

	_, ok = s.service.DefaultCategory("zzz")
	s.False(ok)
}
