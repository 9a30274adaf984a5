package repositories

import (
	"testing"
	"time"

	"pfm-api/internal/database"
	"pfm-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestTransactionRepository(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}

type TransactionRepositorySuite struct {
	suite.Suite
	db       *database.DB
	repo     TransactionRepositoryInterface
	user     *models.User
	account  *models.Account
	category *models.Category
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTransactionRepository(s.db.DB)
	s.user = database.CreateTestUser(s.T(), s.db, "transactions@example.com")
	s.account = database.CreateTestAccount(s.T(), s.db, s.user.ID, models.AccountTypeCash)

	s.category = &models.Category{UserID: s.user.ID, Name: "Groceries"}
	s.Require().NoError(NewCategoryRepository(s.db.DB).Create(s.category))
}

func (s *TransactionRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *TransactionRepositorySuite) txn(date string, description string, amount float64) models.Transaction {
	d, err := time.Parse("2006-01-02", date)
	s.Require().NoError(err)
	return models.Transaction{
		UserID:      s.user.ID,
		AccountID:   s.account.ID,
		Date:        d,
		Description: description,
		Amount:      decimal.NewFromFloat(amount),
	}
}

func (s *TransactionRepositorySuite) seed() []models.Transaction {
	transactions := []models.Transaction{
		s.txn("2024-01-05", "Paycheck", 2500),
		s.txn("2024-01-12", "Whole Foods", -82.4),
		s.txn("2024-02-03", "Shell", -40),
		s.txn("2024-03-09", "Netflix", -15.99),
	}
	inserted, err := s.repo.CreateBatch(transactions)
	s.Require().NoError(err)
	s.Require().Equal(int64(4), inserted)
	return transactions
}

func (s *TransactionRepositorySuite) TestCreateBatch_SkipsDuplicates() {
	transactions := s.seed()
	for _, t := range transactions {
		s.NotEqual(uuid.Nil, t.ID)
	}

	again := []models.Transaction{
		s.txn("2024-01-12", "Whole Foods", -82.4),
		s.txn("2024-01-12", "Whole Foods", -82.41),
		s.txn("2024-01-12", "Whole Foods", -82.41),
	}
	inserted, err := s.repo.CreateBatch(again)
	s.Require().NoError(err)
	s.Equal(int64(1), inserted)

	all, err := s.repo.GetByUserID(s.user.ID)
	s.Require().NoError(err)
	s.Len(all, 5)

	inserted, err = s.repo.CreateBatch(nil)
	s.NoError(err)
	s.Zero(inserted)
}

func (s *TransactionRepositorySuite) TestGetByDateRange() {
	s.seed()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	january, err := s.repo.GetByDateRange(s.user.ID, start, start.AddDate(0, 1, 0))
	s.Require().NoError(err)
	s.Require().Len(january, 2)
	s.Equal("Whole Foods", january[0].Description)
	s.Equal("Paycheck", january[1].Description)

	empty, err := s.repo.GetByDateRange(uuid.New(), start, start.AddDate(1, 0, 0))
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *TransactionRepositorySuite) TestGetDistinctMonths() {
	s.seed()

	months, err := s.repo.GetDistinctMonths(s.user.ID)
	s.Require().NoError(err)
	s.Equal([]string{"2024-03", "2024-02", "2024-01"}, months)
}

func (s *TransactionRepositorySuite) TestCategoryAssignment() {
	transactions := s.seed()

	s.Require().NoError(s.repo.UpdateCategory(transactions[1].ID, s.category.ID))

	found, err := s.repo.GetByID(transactions[1].ID, s.user.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Category)
	s.Equal("Groceries", found.Category.Name)

	uncategorized, err := s.repo.GetUncategorized(s.user.ID)
	s.Require().NoError(err)
	s.Len(uncategorized, 3)

	updated, err := s.repo.AssignCategories(map[uuid.UUID]uuid.UUID{
		transactions[1].ID: uuid.New(),
		transactions[2].ID: s.category.ID,
	})
	s.Require().NoError(err)
	s.Equal(int64(1), updated)

	found, err = s.repo.GetByID(transactions[1].ID, s.user.ID)
	s.Require().NoError(err)
	s.Equal(s.category.ID, *found.CategoryID)

	s.ErrorIs(s.repo.UpdateCategory(uuid.New(), s.category.ID), ErrTransactionNotFound)
	_, err = s.repo.GetByID(transactions[0].ID, uuid.New())
	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionRepositorySuite) TestDeleteByUserID() {
	s.seed()

	deleted, err := s.repo.DeleteByUserID(s.user.ID)
	s.Require().NoError(err)
	s.Equal(int64(4), deleted)

	months, err := s.repo.GetDistinctMonths(s.user.ID)
	s.Require().NoError(err)
	s.Empty(months)
}

func (s *TransactionRepositorySuite) TestAccountDeleteRemovesItsTransactions() {
	other := database.CreateTestAccount(s.T(), s.db, s.user.ID, models.AccountTypeCash)
	kept := s.txn("2024-04-01", "Other bank fee", -3)
	kept.AccountID = other.ID

	s.seed()
	_, err := s.repo.CreateBatch([]models.Transaction{kept})
	s.Require().NoError(err)

	s.Require().NoError(NewAccountRepository(s.db.DB).Delete(s.account.ID, s.user.ID))

	remaining, err := s.repo.GetByUserID(s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(remaining, 1)
	s.Equal("Other bank fee", remaining[0].Description)

	months, err := s.repo.GetDistinctMonths(s.user.ID)
	s.Require().NoError(err)
	s.Equal([]string{"2024-04"}, months)
}

func (s *TransactionRepositorySuite) TestAccountDeleteOnlyAccount() {
	s.seed()

	s.Require().NoError(NewAccountRepository(s.db.DB).Delete(s.account.ID, s.user.ID))

	remaining, err := s.repo.GetByUserID(s.user.ID)
	s.Require().NoError(err)
	s.Empty(remaining)

	uncategorized, err := s.repo.GetUncategorized(s.user.ID)
	s.Require().NoError(err)
	s.Empty(uncategorized)
}
