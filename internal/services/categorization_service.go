package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"pfm-api/internal/dto"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"
	"pfm-api/internal/rules"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category with this name already exists")
	ErrDuplicateRule         = errors.New("category already has this rule")
)

// CategorizationService manages categories and assigns them to transactions
// through regex rules, manual choices and keyword learning
type CategorizationService struct {
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	suggestionRepo  repositories.SuggestionRepositoryInterface
	keywordTable    rules.KeywordTable
	auditService    AuditServiceInterface
	auditLogger     AuditLoggerInterface
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
}

func NewCategorizationService(
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	suggestionRepo repositories.SuggestionRepositoryInterface,
	keywordTable rules.KeywordTable,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) CategorizationServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	if len(keywordTable) == 0 {
		keywordTable = rules.DefaultKeywordRules
	}
	return &CategorizationService{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		suggestionRepo:  suggestionRepo,
		keywordTable:    keywordTable,
		auditService:    auditService,
		auditLogger:     auditLogger,
		metrics:         metrics,
		logger:          logger,
	}
}

func (s *CategorizationService) CreateCategory(userID uuid.UUID, req *dto.CreateCategoryRequest) (*models.Category, error) {
	planned := decimal.Zero
	if p := strings.TrimSpace(req.PlannedAmount); p != "" {
		parsed, err := decimal.NewFromString(p)
		if err != nil || parsed.IsNegative() {
			return nil, ErrInvalidAmount
		}
		planned = parsed.Round(2)
	}

	patterns := make(models.StringList, 0, len(req.Rules))
	for _, p := range req.Rules {
		if err := rules.ValidatePattern(p); err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}

	category := &models.Category{
		UserID:        userID,
		Name:          strings.TrimSpace(req.Name),
		PlannedAmount: planned,
		Rules:         patterns,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, repositories.ErrCategoryAlreadyExists) {
			return nil, ErrCategoryAlreadyExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.auditService.Record(userID, models.AuditActionCategoryCreated, "category", category.ID.String(), map[string]interface{}{
		"name":  category.Name,
		"rules": len(category.Rules),
	})

	return category, nil
}

// ListCategories returns categories in rule evaluation order
func (s *CategorizationService) ListCategories(userID uuid.UUID) ([]models.Category, error) {
	categories, err := s.categoryRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// AddRule appends a validated regex pattern to the category's rules
func (s *CategorizationService) AddRule(userID, categoryID uuid.UUID, pattern string) (*models.Category, error) {
	if err := rules.ValidatePattern(pattern); err != nil {
		return nil, err
	}

	category, err := s.getCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}
	for _, existing := range category.Rules {
		if existing == pattern {
			return nil, ErrDuplicateRule
		}
	}

	category.Rules = append(category.Rules, pattern)
	if err := s.categoryRepo.Update(category); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to add rule: %w", err)
	}

	s.auditService.Record(userID, models.AuditActionCategoryUpdated, "category", category.ID.String(), map[string]interface{}{
		"pattern": pattern,
	})

	return category, nil
}

// DeleteCategory removes the category. Its transactions become uncategorized.
func (s *CategorizationService) DeleteCategory(userID, categoryID uuid.UUID) error {
	if err := s.categoryRepo.Delete(categoryID, userID); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.auditService.Record(userID, models.AuditActionCategoryDeleted, "category", categoryID.String(), nil)
	return nil
}

// ApplyRules runs every category's regex rules over the uncategorized
// transactions. Categorized transactions are left alone so repeated runs
// make no further changes.
func (s *CategorizationService) ApplyRules(ctx context.Context, userID uuid.UUID) (*dto.ApplyRulesResponse, error) {
	categories, err := s.categoryRepo.GetByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	uncategorized, err := s.transactionRepo.GetUncategorized(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load uncategorized transactions: %w", err)
	}

	ruleCategories := make([]rules.Category, 0, len(categories))
	for i := range categories {
		ruleCategories = append(ruleCategories, categories[i].ToRuleCategory())
	}
	candidates := make([]rules.Transaction, 0, len(uncategorized))
	for _, tx := range uncategorized {
		candidates = append(candidates, rules.Transaction{ID: tx.ID.String(), Description: tx.Description})
	}

	assignments := rules.NewEngine(ruleCategories, s.logger).Apply(candidates)
	if assignments == nil {
		assignments = []rules.Assignment{}
	}

	updates := make(map[uuid.UUID]uuid.UUID, len(assignments))
	for _, a := range assignments {
		txID, err := uuid.Parse(a.TransactionID)
		if err != nil {
			continue
		}
		catID, err := uuid.Parse(a.CategoryID)
		if err != nil {
			continue
		}
		updates[txID] = catID
	}

	var updated int64
	if len(updates) > 0 {
		updated, err = s.transactionRepo.AssignCategories(updates)
		if err != nil {
			return nil, fmt.Errorf("failed to assign categories: %w", err)
		}
	}

	s.metrics.IncrementCounter(MetricRulesApplied, nil)
	s.metrics.RecordGauge(MetricCategorization, float64(updated), map[string]string{"method": models.CategorizationMethodRule})
	s.auditLogger.LogRulesApplied(ctx, userID, assignments)
	s.auditService.Record(userID, models.AuditActionRulesApplied, "transaction", "", map[string]interface{}{
		"updated": updated,
	})

	return &dto.ApplyRulesResponse{Updated: updated, Assignments: assignments}, nil
}

// Categorize sets a transaction's category by hand and learns the keywords
// of its description for future suggestions.
func (s *CategorizationService) Categorize(ctx context.Context, userID, transactionID, categoryID uuid.UUID) (*dto.CategorizeResponse, error) {
	tx, err := s.transactionRepo.GetByID(transactionID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	category, err := s.getCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.UpdateCategory(tx.ID, category.ID); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction category: %w", err)
	}
	tx.CategoryID = &category.ID
	tx.Category = category

	keywords := rules.ExtractKeywords(tx.Description)
	if err := s.suggestionRepo.IncrementKeywords(userID, category.ID, keywords); err != nil {
		// The category change already succeeded; learning is best effort.
		s.logger.Error("failed to learn keywords",
			"error", err,
			"user_id", userID,
			"transaction_id", tx.ID)
	}
	if keywords == nil {
		keywords = []string{}
	}

	s.metrics.IncrementCounter(MetricCategorization, map[string]string{"method": models.CategorizationMethodManual})
	s.auditLogger.LogManualCategorization(ctx, userID, tx.ID, category.ID, keywords)

	return &dto.CategorizeResponse{Transaction: tx, Keywords: keywords}, nil
}

// Suggest ranks the user's learned keyword scores for a description. The
// static keyword table result is returned alongside as a fallback.
func (s *CategorizationService) Suggest(userID uuid.UUID, description string) (*dto.SuggestionResponse, error) {
	keywords := rules.UniqueKeywords(description)
	resp := &dto.SuggestionResponse{Keywords: keywords}
	if resp.Keywords == nil {
		resp.Keywords = []string{}
	}
	if name, ok := s.DefaultCategory(description); ok {
		resp.DefaultCategory = name
	}
	if len(keywords) == 0 {
		return resp, nil
	}

	rows, err := s.suggestionRepo.GetByKeywords(userID, keywords)
	if err != nil {
		return nil, fmt.Errorf("failed to load keyword scores: %w", err)
	}

	scores := make([]rules.KeywordScore, 0, len(rows))
	for _, row := range rows {
		scores = append(scores, rules.KeywordScore{
			Keyword:    row.Keyword,
			CategoryID: row.CategoryID.String(),
			Score:      row.ConfidenceScore,
		})
	}

	best, ok := rules.RankSuggestion(keywords, scores)
	if !ok {
		return resp, nil
	}

	categoryID, err := uuid.Parse(best.CategoryID)
	if err != nil {
		return resp, nil
	}
	resp.CategoryID = &categoryID
	resp.TotalScore = best.TotalScore

	if category, err := s.categoryRepo.GetByID(categoryID, userID); err == nil {
		resp.CategoryName = category.Name
	} else if !errors.Is(err, repositories.ErrCategoryNotFound) {
		s.logger.Warn("failed to resolve suggested category",
			"error", err,
			"category_id", categoryID)
	}

	s.metrics.IncrementCounter(MetricCategorization, map[string]string{"method": models.CategorizationMethodLearned})
	return resp, nil
}

// DefaultCategory looks the description up in the static keyword table
func (s *CategorizationService) DefaultCategory(description string) (string, bool) {
	return s.keywordTable.Categorize(description)
}

func (s *CategorizationService) getCategory(userID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(categoryID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}
