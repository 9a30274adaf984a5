package handlers

import (
	stderrors "errors"
	"net/http"
	"time"

	"pfm-api/internal/dto"
	"pfm-api/internal/errors"
	"pfm-api/internal/services"

	"github.com/labstack/echo/v4"
)

const (
	defaultDemoDays = 90
	maxDemoDays     = 730
)

// DevHandler handles development-only endpoints
// These endpoints should only be available in development environments
type DevHandler struct {
	accountService        services.AccountServiceInterface
	transactionService    services.TransactionServiceInterface
	categorizationService services.CategorizationServiceInterface
	generator             services.DemoGeneratorInterface
	now                   func() time.Time
}

// NewDevHandler creates a new development handler
func NewDevHandler(
	accountService services.AccountServiceInterface,
	transactionService services.TransactionServiceInterface,
	categorizationService services.CategorizationServiceInterface,
	generator services.DemoGeneratorInterface,
) *DevHandler {
	if generator == nil {
		generator = services.NewDemoGenerator(time.Now().UnixNano())
	}
	return &DevHandler{
		accountService:        accountService,
		transactionService:    transactionService,
		categorizationService: categorizationService,
		generator:             generator,
		now:                   time.Now,
	}
}

// SeedDemoData fills the user's workspace with a demo checking account,
// budget categories and generated bank history, then applies the category
// rules to it
//
// Method: POST /api/v1/dev/seed
// Authentication: Required
// Environment: Development only
//
// Query parameters:
//   - days: Number of days of history to generate (default: 90, max: 730)
//
// Success Response: 200 OK
//   - account_id: The demo account
//   - categories_created: Categories added (existing names are kept)
//   - import: The import report
//   - categorized: Transactions assigned by the rules
func (h *DevHandler) SeedDemoData(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	days := getIntParam(c, "days", defaultDemoDays)
	if days < 1 || days > maxDemoDays {
		return SendError(c, errors.ValidationOutOfRange,
			errors.WithDetails("days: must be between 1 and 730"))
	}

	account, err := h.accountService.CreateAccount(userID, &dto.CreateAccountRequest{
		Name:        "Demo Checking",
		AccountType: "checking",
		Balance:     "4200.00",
		Institution: "Demo Bank",
	})
	if err != nil {
		return SendServiceError(c, err)
	}

	created := 0
	for _, category := range h.generator.GenerateCategories() {
		_, err := h.categorizationService.CreateCategory(userID, &dto.CreateCategoryRequest{
			Name:          category.Name,
			PlannedAmount: category.PlannedAmount.StringFixed(2),
			Rules:         category.Rules,
		})
		if stderrors.Is(err, services.ErrCategoryAlreadyExists) {
			continue
		}
		if err != nil {
			return SendServiceError(c, err)
		}
		created++
	}

	end := h.now()
	rows := h.generator.GenerateRows(end.AddDate(0, 0, -days), end)

	ctx := c.Request().Context()
	report, err := h.transactionService.Import(ctx, userID, &dto.ImportTransactionsRequest{
		AccountID: account.ID.String(),
		Rows:      rows,
	})
	if err != nil {
		return SendServiceError(c, err)
	}

	applied, err := h.categorizationService.ApplyRules(ctx, userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":            "demo data generated successfully",
		"account_id":         account.ID,
		"categories_created": created,
		"import":             report,
		"categorized":        applied.Updated,
	})
}
