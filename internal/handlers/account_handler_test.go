package handlers

import (
	"encoding/json"
	"errors"
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

// AccountHandlerSuite defines the test suite for AccountHandler
type AccountHandlerSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *service_mocks.MockAccountServiceInterface
	handler     *AccountHandler
	echo        *echo.Echo
	testUserID  uuid.UUID
}

func (s *AccountHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = service_mocks.NewMockAccountServiceInterface(s.ctrl)
	s.handler = NewAccountHandler(s.mockService)

	s.echo = echo.New()
	s.echo.Validator = NewValidator()
	s.testUserID = uuid.New()
}

func (s *AccountHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAccountHandlerSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerSuite))
}

func (s *AccountHandlerSuite) TestListAccounts() {
	s.mockService.EXPECT().ListAccounts(s.testUserID).Return(&dto.AccountListResponse{
		Accounts: []models.Account{{ID: uuid.New(), UserID: s.testUserID, Name: "Checking", AccountType: models.AccountTypeCash, Balance: decimal.NewFromInt(2500)}},
		Total:    1,
		Cash:     decimal.NewFromInt(2500),
		NetWorth: decimal.NewFromInt(2500),
	}, nil)

	c, rec := newAuthedContext(s.echo, http.MethodGet, "/accounts", nil, s.testUserID)

	s.NoError(s.handler.ListAccounts(c))
	s.Equal(http.StatusOK, rec.Code)

	var response dto.AccountListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &response))
	s.Equal(1, response.Total)
	s.True(response.NetWorth.Equal(decimal.NewFromInt(2500)))
}

func (s *AccountHandlerSuite) TestListAccounts_Unauthenticated() {
	c, rec := newAuthedContext(s.echo, http.MethodGet, "/accounts", nil, uuid.Nil)

	s.NoError(s.handler.ListAccounts(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *AccountHandlerSuite) TestCreateAccount_Success() {
	s.mockService.EXPECT().
		CreateAccount(s.testUserID, gomock.Any()).
		DoAndReturn(func(_ uuid.UUID, req *dto.CreateAccountRequest) (*models.Account, error) {
			s.Equal("brokerage", req.AccountType)
			return &models.Account{ID: uuid.New(), UserID: s.testUserID, Name: req.Name, AccountType: models.AccountTypeInvestment}, nil
		})

	c, rec := newAuthedContext(s.echo, http.MethodPost, "/accounts", map[string]string{
		"name":         "Brokerage",
		"account_type": "brokerage",
		"balance":      "10500.00",
	}, s.testUserID)

	s.NoError(s.handler.CreateAccount(c))
	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), `"account_type":"investment"`)
}

func (s *AccountHandlerSuite) TestCreateAccount_InvalidType() {
	c, _ := newAuthedContext(s.echo, http.MethodPost, "/accounts", map[string]string{
		"name":         "Wallet",
		"account_type": "crypto",
	}, s.testUserID)

	s.Error(s.handler.CreateAccount(c))
}

func (s *AccountHandlerSuite) TestUpdateBalance_Success() {
	accountID := uuid.New()
	s.mockService.EXPECT().
		UpdateBalance(s.testUserID, accountID, decimal.RequireFromString("1200.50")).
		Return(&models.Account{ID: accountID, Balance: decimal.RequireFromString("1200.50")}, nil)

	c, rec := newAuthedContext(s.echo, http.MethodPut, "/accounts/"+accountID.String()+"/balance", map[string]string{
		"balance": "1200.50",
	}, s.testUserID)
	withParam(c, "id", accountID.String())

	s.NoError(s.handler.UpdateBalance(c))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *AccountHandlerSuite) TestUpdateBalance_NotFound() {
	accountID := uuid.New()
	s.mockService.EXPECT().
		UpdateBalance(s.testUserID, accountID, gomock.Any()).
		Return(nil, services.ErrAccountNotFound)

	c, rec := newAuthedContext(s.echo, http.MethodPut, "/", map[string]string{"balance": "10"}, s.testUserID)
	withParam(c, "id", accountID.String())

	s.NoError(s.handler.UpdateBalance(c))
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "ACCOUNT_001")
}

func (s *AccountHandlerSuite) TestUpdateBalance_InvalidID() {
	c, rec := newAuthedContext(s.echo, http.MethodPut, "/", map[string]string{"balance": "10"}, s.testUserID)
	withParam(c, "id", "not-a-uuid")

	s.NoError(s.handler.UpdateBalance(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "VALIDATION_003")
}

func (s *AccountHandlerSuite) TestDeleteAccount() {
	accountID := uuid.New()

	s.Run("deleted", func() {
		s.mockService.EXPECT().DeleteAccount(s.testUserID, accountID).Return(nil)

		c, rec := newAuthedContext(s.echo, http.MethodDelete, "/", nil, s.testUserID)
		withParam(c, "id", accountID.String())

		s.NoError(s.handler.DeleteAccount(c))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("repository failure", func() {
		s.mockService.EXPECT().DeleteAccount(s.testUserID, accountID).Return(errors.New("disk full"))

		c, rec := newAuthedContext(s.echo, http.MethodDelete, "/", nil, s.testUserID)
		withParam(c, "id", accountID.String())

		s.NoError(s.handler.DeleteAccount(c))
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "disk full")
	})
}
