package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pfm-api/internal/dto"
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidAmount   = errors.New("invalid amount")
)

type accountService struct {
	accountRepo  repositories.AccountRepositoryInterface
	auditService AuditServiceInterface
	logger       *slog.Logger
}

// NewAccountService creates the service that owns the cash, investment and
// debt balances feeding net worth
func NewAccountService(
	accountRepo repositories.AccountRepositoryInterface,
	auditService AuditServiceInterface,
	logger *slog.Logger,
) AccountServiceInterface {
	return &accountService{
		accountRepo:  accountRepo,
		auditService: auditService,
		logger:       logger,
	}
}

func (s *accountService) CreateAccount(userID uuid.UUID, req *dto.CreateAccountRequest) (*models.Account, error) {
	accountType := models.NormalizeAccountType(req.AccountType)
	if !models.IsValidAccountType(accountType) {
		return nil, models.ErrInvalidAccountType
	}

	balance := decimal.Zero
	if strings.TrimSpace(req.Balance) != "" {
		parsed, err := decimal.NewFromString(strings.TrimSpace(req.Balance))
		if err != nil || parsed.IsNegative() {
			return nil, ErrInvalidAmount
		}
		balance = parsed
	}

	account := &models.Account{
		UserID:      userID,
		Name:        strings.TrimSpace(req.Name),
		AccountType: accountType,
		Balance:     balance.Round(2),
		Institution: strings.TrimSpace(req.Institution),
	}
	if err := s.accountRepo.Create(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.auditService.Record(userID, models.AuditActionAccountCreated, "account", account.ID.String(), map[string]interface{}{
		"account_type": accountType,
	})

	return account, nil
}

// ListAccounts returns every account with the bucketed totals
func (s *accountService) ListAccounts(userID uuid.UUID) (*dto.AccountListResponse, error) {
	accounts, err := s.accountRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	balances := models.SumBalances(accounts)
	return &dto.AccountListResponse{
		Accounts:    accounts,
		Total:       len(accounts),
		Cash:        balances.Cash,
		Investments: balances.Investments,
		Debt:        balances.Debt,
		NetWorth:    balances.NetWorth(),
	}, nil
}

func (s *accountService) UpdateBalance(userID, accountID uuid.UUID, balance decimal.Decimal) (*models.Account, error) {
	if balance.IsNegative() {
		return nil, ErrInvalidAmount
	}

	account, err := s.getOwned(userID, accountID)
	if err != nil {
		return nil, err
	}

	previous := account.Balance
	account.Balance = balance.Round(2)
	if err := s.accountRepo.Update(account); err != nil {
		return nil, fmt.Errorf("failed to update account balance: %w", err)
	}

	s.auditService.Record(userID, models.AuditActionAccountUpdated, "account", account.ID.String(), map[string]interface{}{
		"previous_balance": previous.StringFixed(2),
		"balance":          account.Balance.StringFixed(2),
	})

	return account, nil
}

func (s *accountService) DeleteAccount(userID, accountID uuid.UUID) error {
	if err := s.accountRepo.Delete(accountID, userID); err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}

	s.auditService.Record(userID, models.AuditActionAccountDeleted, "account", accountID.String(), nil)
	return nil
}

// GetBalances sums the user's accounts into net worth buckets
func (s *accountService) GetBalances(userID uuid.UUID) (ledger.Balances, error) {
	accounts, err := s.accountRepo.GetByUserID(userID)
	if err != nil {
		return ledger.Balances{}, fmt.Errorf("failed to load accounts: %w", err)
	}
	return models.SumBalances(accounts), nil
}

func (s *accountService) getOwned(userID, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(accountID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}
