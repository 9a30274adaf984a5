package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"pfm-api/internal/dto"
	"pfm-api/internal/format"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultExpenseRatio is assumed for symbols missing from the fee table
const DefaultExpenseRatio = 0.001

var ErrInvestmentNotFound = errors.New("investment not found")

// expenseRatios holds annual expense ratios of common funds as fractions
var expenseRatios = map[string]float64{
	"VTI":  0.0003,
	"VXUS": 0.0007,
	"BND":  0.0003,
	"VOO":  0.0003,
	"VNQ":  0.0012,
	"SCHD": 0.0006,
	"QQQ":  0.0020,
	"SPY":  0.0009,
	"VT":   0.0006,
	"IVV":  0.0003,
}

// ExpenseRatio returns the known ratio for symbol, or DefaultExpenseRatio
func ExpenseRatio(symbol string) (float64, bool) {
	if ratio, ok := expenseRatios[models.NormalizeSymbol(symbol)]; ok {
		return ratio, true
	}
	return DefaultExpenseRatio, false
}

type InvestmentService struct {
	investmentRepo repositories.InvestmentRepositoryInterface
	auditService   AuditServiceInterface
	logger         *slog.Logger
}

func NewInvestmentService(
	investmentRepo repositories.InvestmentRepositoryInterface,
	auditService AuditServiceInterface,
	logger *slog.Logger,
) InvestmentServiceInterface {
	return &InvestmentService{
		investmentRepo: investmentRepo,
		auditService:   auditService,
		logger:         logger,
	}
}

func (s *InvestmentService) Create(userID uuid.UUID, req *dto.CreateInvestmentRequest) (*models.Investment, error) {
	investment := &models.Investment{
		UserID: userID,
		Symbol: models.NormalizeSymbol(req.Symbol),
	}
	if !models.IsValidSymbol(investment.Symbol) {
		return nil, models.ErrInvalidSymbol
	}
	if err := applyInvestmentFields(investment, req.Shares, req.PurchasePrice, req.PurchaseDate); err != nil {
		return nil, err
	}
	if !investment.Shares.IsPositive() {
		return nil, models.ErrInvalidShares
	}

	if err := s.investmentRepo.Create(investment); err != nil {
		return nil, fmt.Errorf("failed to create investment: %w", err)
	}

	s.auditService.Record(userID, models.AuditActionInvestmentCreated, "investment", investment.ID.String(), map[string]interface{}{
		"symbol": investment.Symbol,
		"shares": investment.Shares.String(),
	})
	return investment, nil
}

func (s *InvestmentService) List(userID uuid.UUID) (*dto.InvestmentListResponse, error) {
	investments, err := s.investmentRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	if investments == nil {
		investments = []models.Investment{}
	}

	costBasis := decimal.Zero
	for i := range investments {
		costBasis = costBasis.Add(investments[i].CostBasis())
	}

	return &dto.InvestmentListResponse{
		Investments: investments,
		Total:       len(investments),
		CostBasis:   costBasis,
	}, nil
}

func (s *InvestmentService) Update(userID, investmentID uuid.UUID, req *dto.UpdateInvestmentRequest) (*models.Investment, error) {
	investment, err := s.investmentRepo.GetByID(investmentID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrInvestmentNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}

	if err := applyInvestmentFields(investment, req.Shares, req.PurchasePrice, req.PurchaseDate); err != nil {
		return nil, err
	}
	if !investment.Shares.IsPositive() {
		return nil, models.ErrInvalidShares
	}

	if err := s.investmentRepo.Update(investment); err != nil {
		return nil, fmt.Errorf("failed to update investment: %w", err)
	}
	return investment, nil
}

func (s *InvestmentService) Delete(userID, investmentID uuid.UUID) error {
	if err := s.investmentRepo.Delete(investmentID, userID); err != nil {
		if errors.Is(err, repositories.ErrInvestmentNotFound) {
			return ErrInvestmentNotFound
		}
		return fmt.Errorf("failed to delete investment: %w", err)
	}

	s.auditService.Record(userID, models.AuditActionInvestmentDeleted, "investment", investmentID.String(), nil)
	return nil
}

// FeeAnalysis looks up each holding's expense ratio. The average is a simple
// mean over holdings, not weighted by position size.
func (s *InvestmentService) FeeAnalysis(userID uuid.UUID) (*dto.FeeAnalysisResponse, error) {
	investments, err := s.investmentRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	resp := &dto.FeeAnalysisResponse{
		Holdings:        make([]dto.HoldingFee, 0, len(investments)),
		TotalAnnualFees: decimal.Zero,
	}

	var sum float64
	for i := range investments {
		ratio, known := ExpenseRatio(investments[i].Symbol)
		basis := investments[i].CostBasis()
		fee := basis.Mul(decimal.NewFromFloat(ratio)).Round(2)

		resp.Holdings = append(resp.Holdings, dto.HoldingFee{
			Symbol:       investments[i].Symbol,
			ExpenseRatio: ratio,
			Known:        known,
			CostBasis:    basis,
			AnnualFee:    fee,
		})
		resp.TotalAnnualFees = resp.TotalAnnualFees.Add(fee)
		sum += ratio
	}

	if len(investments) > 0 {
		resp.AverageExpenseRatio = sum / float64(len(investments))
	}
	resp.AverageFormatted = format.FormatPercentPlaces(resp.AverageExpenseRatio, 2)

	return resp, nil
}

// applyInvestmentFields parses the optional string fields of a request onto
// the investment. Empty values leave the field unchanged.
func applyInvestmentFields(investment *models.Investment, shares, price, purchaseDate string) error {
	if strings.TrimSpace(shares) != "" {
		v, err := decimal.NewFromString(strings.TrimSpace(shares))
		if err != nil {
			return models.ErrInvalidShares
		}
		investment.Shares = v
	}
	if strings.TrimSpace(price) != "" {
		v, err := decimal.NewFromString(strings.TrimSpace(price))
		if err != nil || v.IsNegative() {
			return models.ErrInvalidPrice
		}
		investment.PurchasePrice = v.Round(2)
	}
	if strings.TrimSpace(purchaseDate) != "" {
		d, err := time.Parse("2006-01-02", strings.TrimSpace(purchaseDate))
		if err != nil {
			return fmt.Errorf("invalid purchase date: %w", err)
		}
		investment.PurchaseDate = &d
	}
	return nil
}
