package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pfm-api/internal/dto"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrInvalidWithdrawalRate = errors.New("withdrawal rate must be greater than 0 and at most 100")

type SettingsService struct {
	settingsRepo repositories.SettingsRepositoryInterface
	auditService AuditServiceInterface
	logger       *slog.Logger
}

func NewSettingsService(
	settingsRepo repositories.SettingsRepositoryInterface,
	auditService AuditServiceInterface,
	logger *slog.Logger,
) SettingsServiceInterface {
	return &SettingsService{
		settingsRepo: settingsRepo,
		auditService: auditService,
		logger:       logger,
	}
}

// Get returns the user's settings, creating the defaults on first access
func (s *SettingsService) Get(userID uuid.UUID) (*models.UserSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repositories.ErrSettingsNotFound) {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	settings = models.DefaultUserSettings(userID)
	if err := s.settingsRepo.Upsert(settings); err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}
	return settings, nil
}

func (s *SettingsService) Update(userID uuid.UUID, req *dto.UpdateSettingsRequest) (*models.UserSettings, error) {
	settings, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	changed := make(map[string]interface{})
	if req.Currency != "" {
		settings.Currency = strings.ToUpper(req.Currency)
		changed["currency"] = settings.Currency
	}
	if req.Locale != "" {
		settings.Locale = req.Locale
		changed["locale"] = settings.Locale
	}
	if req.MonthlyIncome != "" {
		v, err := parseAmount(req.MonthlyIncome)
		if err != nil {
			return nil, err
		}
		settings.MonthlyIncome = v
		changed["monthly_income"] = v.StringFixed(2)
	}
	if req.MonthlyInvestment != "" {
		v, err := parseAmount(req.MonthlyInvestment)
		if err != nil {
			return nil, err
		}
		settings.MonthlyInvestment = v
		changed["monthly_investment"] = v.StringFixed(2)
	}
	if req.WithdrawalRate != "" {
		v, err := parseAmount(req.WithdrawalRate)
		if err != nil {
			return nil, err
		}
		if !v.IsPositive() || v.GreaterThan(decimal.NewFromInt(100)) {
			return nil, ErrInvalidWithdrawalRate
		}
		settings.WithdrawalRate = v
		changed["withdrawal_rate"] = v.String()
	}
	if req.EnableRollover != nil {
		settings.EnableRollover = *req.EnableRollover
		changed["enable_rollover"] = settings.EnableRollover
	}

	if err := s.settingsRepo.Upsert(settings); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.auditService.Record(userID, models.AuditActionSettingsUpdated, "settings", userID.String(), changed)
	return settings, nil
}

// parseAmount reads a non-negative decimal string rounded to cents
func parseAmount(value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d.Round(2), nil
}
