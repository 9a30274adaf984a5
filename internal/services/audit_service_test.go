package services

import (
	"errors"
	"testing"

	"pfm-api/internal/models"
	"pfm-api/internal/repositories/repository_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuditServiceTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mockRepo *repository_mocks.MockAuditLogRepositoryInterface
	service  AuditServiceInterface
}

func (s *AuditServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = repository_mocks.NewMockAuditLogRepositoryInterface(s.ctrl)
	s.service = NewAuditService(s.mockRepo, nil)
}

func (s *AuditServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuditServiceSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}

func (s *AuditServiceTestSuite) TestValidateActivityType() {
	s.NoError(ValidateActivityType(models.AuditActionLogin))
	s.NoError(ValidateActivityType(models.AuditActionImport))
	s.NoError(ValidateActivityType(models.AuditActionWorkspaceReset))
	s.Error(ValidateActivityType("invalid_action"))
	s.Error(ValidateActivityType(""))
}

func (s *AuditServiceTestSuite) TestRecord_StoresEntry() {
	userID := uuid.New()
	categoryID := uuid.New()

	s.mockRepo.EXPECT().
		Create(gomock.Any()).
		DoAndReturn(func(l *models.AuditLog) error {
			s.Require().NotNil(l.UserID)
			s.Equal(userID, *l.UserID)
			s.Equal(models.AuditActionCategoryCreated, l.Action)
			s.Equal("category", l.Resource)
			s.Equal(categoryID.String(), l.ResourceID)
			s.Equal("Groceries", l.Metadata.String("name"))
			return nil
		}).
		Times(1)

	s.service.Record(userID, models.AuditActionCategoryCreated, "category", categoryID.String(),
		map[string]interface{}{"name": "Groceries"})
}

func (s *AuditServiceTestSuite) TestRecord_InvalidActionIsDropped() {
	s.mockRepo.EXPECT().Create(gomock.Any()).Times(0)
	s.service.Record(uuid.New(), "not_an_action", "category", "", nil)
}

func (s *AuditServiceTestSuite) TestRecord_NilUserIsDropped() {
	s.mockRepo.EXPECT().Create(gomock.Any()).Times(0)
	s.service.Record(uuid.Nil, models.AuditActionLogin, "user", "", nil)
}

func (s *AuditServiceTestSuite) TestRecord_RepositoryErrorIsSwallowed() {
	s.mockRepo.EXPECT().
		Create(gomock.Any()).
		Return(errors.New("database error")).
		Times(1)

	s.NotPanics(func() {
		s.service.Record(uuid.New(), models.AuditActionRulesApplied, "transaction", "", nil)
	})
}

func (s *AuditServiceTestSuite) TestGetUserActivity() {
	userID := uuid.New()
	logs := []*models.AuditLog{
		{ID: uuid.New(), UserID: &userID, Action: models.AuditActionLogin},
		{ID: uuid.New(), UserID: &userID, Action: models.AuditActionImport},
	}

	s.mockRepo.EXPECT().
		GetByUserID(userID, 0, 20).
		Return(logs, int64(2), nil).
		Times(1)

	result, total, err := s.service.GetUserActivity(userID, -5, 0)
	s.NoError(err)
	s.Equal(int64(2), total)
	s.Len(result, 2)
}

func (s *AuditServiceTestSuite) TestGetUserActivity_ClampsLimit() {
	userID := uuid.New()
	s.mockRepo.EXPECT().
		GetByUserID(userID, 40, 20).
		Return([]*models.AuditLog{}, int64(0), nil).
		Times(1)

	_, _, err := s.service.GetUserActivity(userID, 40, 500)
	s.NoError(err)
}

func (s *AuditServiceTestSuite) TestGetUserActivity_InvalidUser() {
	_, _, err := s.service.GetUserActivity(uuid.Nil, 0, 10)
	s.ErrorIs(err, ErrInvalidUserID)
}
