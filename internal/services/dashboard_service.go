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

type DashboardService struct {
	accountRepo     repositories.AccountRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	investmentRepo  repositories.InvestmentRepositoryInterface
	logger          *slog.Logger
}

func NewDashboardService(
	accountRepo repositories.AccountRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	investmentRepo repositories.InvestmentRepositoryInterface,
	logger *slog.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		investmentRepo:  investmentRepo,
		logger:          logger,
	}
}

// InitialData bundles the user's records with the monthly spending series
// and the headline numbers for the month containing now
func (s *DashboardService) InitialData(userID uuid.UUID, now time.Time) (*dto.InitialDataResponse, error) {
	accounts, err := s.accountRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	transactions, err := s.transactionRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	categories, err := s.categoryRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	investments, err := s.investmentRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load investments: %w", err)
	}

	entries := models.ToEntries(transactions)
	month := ledger.MonthKey(now)

	kpis := dto.KPIs{
		Month:       month,
		TotalSpent:  decimal.Zero,
		TotalBudget: decimal.Zero,
		NetWorth:    models.SumBalances(accounts).NetWorth(),
	}
	for _, e := range entries {
		if e.Amount.IsNegative() && ledger.MonthKey(e.Date) == month {
			kpis.TotalSpent = kpis.TotalSpent.Add(e.Amount.Abs())
		}
	}
	for i := range transactions {
		if !transactions[i].IsCategorized() {
			kpis.Uncategorized++
		}
	}
	for i := range categories {
		kpis.TotalBudget = kpis.TotalBudget.Add(categories[i].PlannedAmount)
	}

	resp := &dto.InitialDataResponse{
		Accounts:        accounts,
		Transactions:    transactions,
		Categories:      categories,
		Investments:     investments,
		MonthlySpending: ledger.MonthlySpent(entries),
		KPIs:            kpis,
	}
	if resp.Accounts == nil {
		resp.Accounts = []models.Account{}
	}
	if resp.Transactions == nil {
		resp.Transactions = []models.Transaction{}
	}
	if resp.Categories == nil {
		resp.Categories = []models.Category{}
	}
	if resp.Investments == nil {
		resp.Investments = []models.Investment{}
	}

	return resp, nil
}
