package repositories

import (
	"testing"

	"pfm-api/internal/database"
	"pfm-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestAccountRepository(t *testing.T) {
	suite.Run(t, new(AccountRepositorySuite))
}

type AccountRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo AccountRepositoryInterface
	user *models.User
}

func (s *AccountRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewAccountRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "accounts@example.com")
}

func (s *AccountRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *AccountRepositorySuite) TestCreateAndList() {
	checking := &models.Account{UserID: s.user.ID, Name: "Checking", AccountType: "checking", Balance: decimal.NewFromInt(1200)}
	brokerage := &models.Account{UserID: s.user.ID, Name: "Brokerage", AccountType: "brokerage", Balance: decimal.NewFromInt(30000)}
	s.Require().NoError(s.repo.Create(checking))
	s.Require().NoError(s.repo.Create(brokerage))

	accounts, err := s.repo.GetByUserID(s.user.ID)
	s.Require().NoError(err)
	s.Len(accounts, 2)

	balances := models.SumBalances(accounts)
	s.Equal("1200", balances.Cash.String())
	s.Equal("30000", balances.Investments.String())

	other, err := s.repo.GetByUserID(uuid.New())
	s.Require().NoError(err)
	s.Empty(other)

	invalid := &models.Account{UserID: s.user.ID, Name: "Wallet", AccountType: "wallet"}
	s.Error(s.repo.Create(invalid))
}

func (s *AccountRepositorySuite) TestOwnership() {
	account := &models.Account{UserID: s.user.ID, Name: "Savings", AccountType: models.AccountTypeCash}
	s.Require().NoError(s.repo.Create(account))

	_, err := s.repo.GetByID(account.ID, uuid.New())
	s.ErrorIs(err, ErrAccountNotFound)

	s.ErrorIs(s.repo.Delete(account.ID, uuid.New()), ErrAccountNotFound)

	found, err := s.repo.GetByID(account.ID, s.user.ID)
	s.Require().NoError(err)
	s.Equal("Savings", found.Name)
}

func (s *AccountRepositorySuite) TestUpdateBalanceAndDelete() {
	account := &models.Account{UserID: s.user.ID, Name: "Visa", AccountType: "credit", Balance: decimal.NewFromInt(500)}
	s.Require().NoError(s.repo.Create(account))

	account.Balance = decimal.NewFromFloat(725.25)
	s.Require().NoError(s.repo.Update(account))

	found, err := s.repo.GetByID(account.ID, s.user.ID)
	s.Require().NoError(err)
	s.Equal("725.25", found.Balance.String())
	s.Equal(models.AccountTypeDebt, found.AccountType)

	account.Balance = decimal.NewFromInt(-1)
	s.Error(s.repo.Update(account))

	s.Require().NoError(s.repo.Delete(account.ID, s.user.ID))
	_, err = s.repo.GetByID(account.ID, s.user.ID)
	s.ErrorIs(err, ErrAccountNotFound)
}
