package services

import (
	"fmt"
	"log/slog"
	"time"

	"pfm-api/internal/dto"
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashFlowMonths is how many trailing months the cash flow chart covers
const CashFlowMonths = 6

type ChartService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	accountRepo     repositories.AccountRepositoryInterface
	snapshotRepo    repositories.NetWorthSnapshotRepositoryInterface
	logger          *slog.Logger
}

func NewChartService(
	transactionRepo repositories.TransactionRepositoryInterface,
	accountRepo repositories.AccountRepositoryInterface,
	snapshotRepo repositories.NetWorthSnapshotRepositoryInterface,
	logger *slog.Logger,
) ChartServiceInterface {
	return &ChartService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		snapshotRepo:    snapshotRepo,
		logger:          logger,
	}
}

// MonthlySpending totals expenses per category name for a YYYY-MM month
func (s *ChartService) MonthlySpending(userID uuid.UUID, month string) (*dto.MonthlySpendingResponse, error) {
	start, err := ledger.ParseMonth(month)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetByDateRange(userID, start, start.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	actuals, err := ledger.CategoryActuals(models.ToEntries(transactions), month)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, a := range actuals {
		total = total.Add(a.Amount)
	}

	return &dto.MonthlySpendingResponse{
		Month:      month,
		Categories: actuals,
		Total:      total,
	}, nil
}

// CashFlow returns income and expenses per month for the trailing
// CashFlowMonths months up to now
func (s *ChartService) CashFlow(userID uuid.UUID, now time.Time) ([]ledger.CashFlowPoint, error) {
	since := ledger.CashFlowStart(now, CashFlowMonths)
	transactions, err := s.transactionRepo.GetByDateRange(userID, since, now.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return ledger.CashFlow(models.ToEntries(transactions), now, CashFlowMonths), nil
}

func (s *ChartService) NetWorthHistory(userID uuid.UUID) ([]models.NetWorthSnapshot, error) {
	snapshots, err := s.snapshotRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load net worth history: %w", err)
	}
	if snapshots == nil {
		snapshots = []models.NetWorthSnapshot{}
	}
	return snapshots, nil
}

// TakeSnapshot records today's net worth from the current account balances.
// A second snapshot on the same day replaces the first.
func (s *ChartService) TakeSnapshot(userID uuid.UUID, at time.Time) (*models.NetWorthSnapshot, error) {
	accounts, err := s.accountRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	snapshot := models.NewNetWorthSnapshot(userID, at, models.SumBalances(accounts))
	if err := s.snapshotRepo.Upsert(snapshot); err != nil {
		return nil, fmt.Errorf("failed to save net worth snapshot: %w", err)
	}

	s.logger.Info("net worth snapshot recorded",
		"user_id", userID,
		"date", snapshot.Date.Format("2006-01-02"),
		"net_worth", snapshot.NetWorth.StringFixed(2))

	return snapshot, nil
}
