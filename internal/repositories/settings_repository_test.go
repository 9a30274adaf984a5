package repositories

import (
	"testing"
	"time"

	"pfm-api/internal/database"
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func mustDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestUserDataRepositories(t *testing.T) {
	suite.Run(t, new(UserDataRepositorySuite))
}

// UserDataRepositorySuite covers the per-user settings, snapshot,
// investment and workspace stores.
type UserDataRepositorySuite struct {
	suite.Suite
	db   *database.DB
	user *models.User
}

func (s *UserDataRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.user = database.CreateTestUser(s.T(), s.db, "data@example.com")
}

func (s *UserDataRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *UserDataRepositorySuite) TestSettingsUpsert() {
	repo := NewSettingsRepository(s.db.DB)

	_, err := repo.GetByUserID(s.user.ID)
	s.ErrorIs(err, ErrSettingsNotFound)

	settings := models.DefaultUserSettings(s.user.ID)
	s.Require().NoError(repo.Upsert(settings))

	settings.MonthlyIncome = decimal.NewFromInt(6000)
	settings.MonthlyInvestment = decimal.NewFromInt(1500)
	settings.EnableRollover = true
	s.Require().NoError(repo.Upsert(settings))

	found, err := repo.GetByUserID(s.user.ID)
	s.Require().NoError(err)
	s.Equal("6000", found.MonthlyIncome.String())
	s.Equal("1500", found.MonthlyInvestment.String())
	s.Equal("4", found.WithdrawalRate.String())
	s.True(found.EnableRollover)

	invalid := models.DefaultUserSettings(s.user.ID)
	invalid.Currency = "DOLLARS"
	s.Error(repo.Upsert(invalid))
}

func (s *UserDataRepositorySuite) TestSnapshotUpsert() {
	repo := NewNetWorthSnapshotRepository(s.db.DB)

	day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.Require().NoError(repo.Upsert(models.NewNetWorthSnapshot(s.user.ID, day, ledger.Balances{Cash: decimal.NewFromInt(100)})))
	s.Require().NoError(repo.Upsert(models.NewNetWorthSnapshot(s.user.ID, day.Add(5*time.Hour), ledger.Balances{Cash: decimal.NewFromInt(250)})))
	s.Require().NoError(repo.Upsert(models.NewNetWorthSnapshot(s.user.ID, day.AddDate(0, 0, -1), ledger.Balances{Cash: decimal.NewFromInt(50)})))

	snapshots, err := repo.GetByUserID(s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(snapshots, 2)
	s.Equal("50", snapshots[0].NetWorth.String())
	s.Equal("250", snapshots[1].NetWorth.String())
}

func (s *UserDataRepositorySuite) TestInvestments() {
	repo := NewInvestmentRepository(s.db.DB)

	vti := &models.Investment{UserID: s.user.ID, Symbol: "vti", Shares: decimal.NewFromInt(10), PurchasePrice: decimal.NewFromInt(200)}
	bnd := &models.Investment{UserID: s.user.ID, Symbol: "BND", Shares: decimal.NewFromInt(5)}
	s.Require().NoError(repo.Create(vti))
	s.Require().NoError(repo.Create(bnd))

	list, err := repo.GetByUserID(s.user.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("BND", list[0].Symbol)
	s.Equal("VTI", list[1].Symbol)

	vti.Shares = decimal.NewFromFloat(12.5)
	s.Require().NoError(repo.Update(vti))
	found, err := repo.GetByID(vti.ID, s.user.ID)
	s.Require().NoError(err)
	s.Equal("12.5", found.Shares.String())

	_, err = repo.GetByID(vti.ID, uuid.New())
	s.ErrorIs(err, ErrInvestmentNotFound)
	s.ErrorIs(repo.Delete(vti.ID, uuid.New()), ErrInvestmentNotFound)
	s.Require().NoError(repo.Delete(vti.ID, s.user.ID))
}

func (s *UserDataRepositorySuite) TestWorkspaceVersions() {
	repo := NewWorkspaceRepository(s.db.DB)

	_, err := repo.Get(s.user.ID)
	s.ErrorIs(err, ErrWorkspaceNotFound)

	first, err := repo.Update(s.user.ID, func(*models.WorkspaceState) (string, error) { return `{"balances":{}}`, nil })
	s.Require().NoError(err)
	s.Equal(1, first.Version)

	second, err := repo.Update(s.user.ID, func(*models.WorkspaceState) (string, error) { return `{"balances":{"cash":"1"}}`, nil })
	s.Require().NoError(err)
	s.Equal(2, second.Version)

	found, err := repo.Get(s.user.ID)
	s.Require().NoError(err)
	s.Equal(`{"balances":{"cash":"1"}}`, found.State)

	s.Require().NoError(repo.Delete(s.user.ID))
	_, err = repo.Get(s.user.ID)
	s.ErrorIs(err, ErrWorkspaceNotFound)
}
