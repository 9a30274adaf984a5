package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pfm-api/internal/dto"
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"

	"github.com/google/uuid"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	accountRepo     repositories.AccountRepositoryInterface
	normalizer      *ledger.Normalizer
	auditService    AuditServiceInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewTransactionService(
	transactionRepo repositories.TransactionRepositoryInterface,
	accountRepo repositories.AccountRepositoryInterface,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) TransactionServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
		normalizer:      ledger.NewNormalizer(logger),
		auditService:    auditService,
		auditLogger:     auditLogger,
		metrics:         metrics,
		logger:          logger,
	}
}

// Import normalizes the submitted rows and stores the valid ones against the
// account. Rows already imported for the account are counted as duplicates.
func (s *TransactionService) Import(ctx context.Context, userID uuid.UUID, req *dto.ImportTransactionsRequest) (*dto.ImportTransactionsResponse, error) {
	startTime := time.Now()

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return nil, ErrAccountNotFound
	}
	if _, err := s.accountRepo.GetByID(accountID, userID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to verify account: %w", err)
	}

	entries, skipped := s.normalizer.NormalizeImport(req.Rows)

	transactions := make([]models.Transaction, 0, len(entries))
	for _, entry := range entries {
		transactions = append(transactions, models.NewTransactionFromEntry(userID, accountID, entry))
	}

	var inserted int64
	if len(transactions) > 0 {
		inserted, err = s.transactionRepo.CreateBatch(transactions)
		if err != nil {
			return nil, fmt.Errorf("failed to store transactions: %w", err)
		}
	}
	duplicates := int64(len(transactions)) - inserted
	if skipped == nil {
		skipped = []ledger.Skip{}
	}

	s.metrics.RecordGauge(MetricTransactionsImported, float64(inserted), nil)
	s.metrics.RecordGauge(MetricTransactionsDuplicate, float64(duplicates), nil)
	s.metrics.RecordGauge(MetricTransactionsSkipped, float64(len(skipped)), nil)
	s.metrics.RecordProcessingTime(MetricImportDuration, time.Since(startTime))

	s.auditLogger.LogImport(ctx, userID, accountID, len(req.Rows), inserted, duplicates, len(skipped))
	s.auditService.Record(userID, models.AuditActionImport, "account", accountID.String(), map[string]interface{}{
		"received":   len(req.Rows),
		"imported":   inserted,
		"duplicates": duplicates,
		"skipped":    len(skipped),
	})

	return &dto.ImportTransactionsResponse{
		Received:   len(req.Rows),
		Imported:   inserted,
		Duplicates: duplicates,
		Skipped:    skipped,
	}, nil
}

// List returns the user's transactions, newest first. A non-empty month
// restricts the list to that YYYY-MM month.
func (s *TransactionService) List(userID uuid.UUID, month string) (*dto.TransactionListResponse, error) {
	var (
		transactions []models.Transaction
		err          error
	)

	if month == "" {
		transactions, err = s.transactionRepo.GetByUserID(userID)
	} else {
		start, perr := ledger.ParseMonth(month)
		if perr != nil {
			return nil, perr
		}
		transactions, err = s.transactionRepo.GetByDateRange(userID, start, start.AddDate(0, 1, 0))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}

	return &dto.TransactionListResponse{
		Transactions: transactions,
		Total:        len(transactions),
		Month:        month,
	}, nil
}

// Months lists the YYYY-MM months that have transactions
func (s *TransactionService) Months(userID uuid.UUID) ([]string, error) {
	months, err := s.transactionRepo.GetDistinctMonths(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list months: %w", err)
	}
	if months == nil {
		months = []string{}
	}
	return months, nil
}

// Clear deletes every transaction the user owns
func (s *TransactionService) Clear(ctx context.Context, userID uuid.UUID) (int64, error) {
	deleted, err := s.transactionRepo.DeleteByUserID(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear transactions: %w", err)
	}

	s.auditLogger.LogTransactionsCleared(ctx, userID, deleted)
	return deleted, nil
}
