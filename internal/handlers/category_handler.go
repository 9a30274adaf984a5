package handlers

import (
	"net/http"

	"pfm-api/internal/dto"
	"pfm-api/internal/errors"
	"pfm-api/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// CategoryHandler handles budget categories and their regex rules
type CategoryHandler struct {
	categorizationService services.CategorizationServiceInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categorizationService services.CategorizationServiceInterface) *CategoryHandler {
	return &CategoryHandler{categorizationService: categorizationService}
}

// ListCategories returns categories in rule evaluation order
// @Summary List categories
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.CategoryListResponse
// @Router /categories [get]
func (h *CategoryHandler) ListCategories(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categories, err := h.categorizationService.ListCategories(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.CategoryListResponse{
		Categories: categories,
		Total:      len(categories),
	})
}

// CreateCategory creates a category with optional planned amount and rules
// @Summary Create a category
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Success 201 {object} models.Category
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_001 or RULE_001"
// @Failure 409 {object} errors.ErrorResponse "CATEGORY_002 - Name already used"
// @Router /categories [post]
func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var req dto.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categorizationService.CreateCategory(userID, &req)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, category)
}

// AddRule appends a regex rule to a category
// @Summary Add a category rule
// @Description Patterns are case-insensitive regular expressions. Nested quantifiers and overly long patterns are rejected.
// @Tags Categories
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body dto.AddRuleRequest true "Rule"
// @Success 200 {object} models.Category
// @Failure 400 {object} errors.ErrorResponse "RULE_001 - Pattern rejected"
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001"
// @Failure 409 {object} errors.ErrorResponse "RULE_002 - Rule already present"
// @Router /categories/{id}/rules [post]
func (h *CategoryHandler) AddRule(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return sendInvalidID(c, "id")
	}

	var req dto.AddRuleRequest
	if err := c.Bind(&req); err != nil {
		return sendInvalidBody(c)
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	category, err := h.categorizationService.AddRule(userID, categoryID, req.Pattern)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category; its transactions become uncategorized
// @Summary Delete a category
// @Tags Categories
// @Security BearerAuth
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} errors.ErrorResponse "CATEGORY_001"
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return sendInvalidID(c, "id")
	}

	if err := h.categorizationService.DeleteCategory(userID, categoryID); err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Category deleted"})
}
