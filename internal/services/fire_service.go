package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"pfm-api/internal/dto"
	"pfm-api/internal/fire"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type FireService struct {
	accountRepo     repositories.AccountRepositoryInterface
	settingsService SettingsServiceInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	newSource       func() rand.Source
}

func NewFireService(
	accountRepo repositories.AccountRepositoryInterface,
	settingsService SettingsServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) FireServiceInterface {
	return &FireService{
		accountRepo:     accountRepo,
		settingsService: settingsService,
		auditLogger:     auditLogger,
		metrics:         metrics,
		logger:          logger,
		newSource: func() rand.Source {
			return rand.NewSource(time.Now().UnixNano())
		},
	}
}

// GetData seeds the calculator: the portfolio is the sum of investment
// account balances and contributions come from the user's settings
func (s *FireService) GetData(userID uuid.UUID) (*dto.FireDataResponse, error) {
	accounts, err := s.accountRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	settings, err := s.settingsService.Get(userID)
	if err != nil {
		return nil, err
	}

	balances := models.SumBalances(accounts)
	return &dto.FireDataResponse{
		CurrentPortfolio:    balances.Investments,
		MonthlyInvestment:   settings.MonthlyInvestment,
		AnnualContributions: settings.MonthlyInvestment.Mul(decimal.NewFromInt(12)),
		WithdrawalRate:      settings.WithdrawalRate,
	}, nil
}

func (s *FireService) Project(req *dto.ProjectionRequest) (*fire.Projection, error) {
	return fire.NewProjector(s.newSource()).Project(fire.ProjectionInput{
		AnnualSpending:        req.AnnualSpending,
		WithdrawalRatePercent: req.WithdrawalRatePercent,
		CurrentPortfolio:      req.CurrentPortfolio,
		AnnualContributions:   req.AnnualContributions,
		ExpectedReturnPercent: req.ExpectedReturnPercent,
	})
}

// MonteCarlo runs the simulation with a fresh random source. A request seed
// makes the run reproducible.
func (s *FireService) MonteCarlo(ctx context.Context, req *dto.MonteCarloRequest) (*fire.MonteCarloResult, error) {
	source := s.newSource()
	if req.Seed != nil {
		source = rand.NewSource(*req.Seed)
	}

	startTime := time.Now()
	result, err := fire.NewProjector(source).MonteCarlo(fire.MonteCarloInput{
		Initial:            req.Initial,
		AnnualContribution: req.AnnualContribution,
		Years:              req.Years,
		MeanReturn:         req.MeanReturn,
		Volatility:         req.Volatility,
		Inflation:          req.Inflation,
		AnnualWithdrawal:   req.AnnualWithdrawal,
		Simulations:        req.Simulations,
	})
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(startTime)

	s.metrics.RecordProcessingTime(MetricMonteCarloDuration, elapsed)
	s.auditLogger.LogMonteCarloRun(ctx, result.Simulations, result.SuccessProbability, elapsed.Milliseconds())

	return result, nil
}
