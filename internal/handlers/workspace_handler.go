package handlers

import (
	"fmt"
	"io"
	"net/http"

	"pfm-api/internal/errors"
	"pfm-api/internal/services"

	"github.com/labstack/echo/v4"
)

// maxWorkspacePayload bounds action and import bodies
const maxWorkspacePayload = 5 << 20

// WorkspaceHandler exposes the persisted workspace and its actions
type WorkspaceHandler struct {
	workspaceService services.WorkspaceServiceInterface
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaceService services.WorkspaceServiceInterface) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// GetWorkspace returns the stored workspace, defaults when none was saved
// @Summary Get workspace
// @Tags Workspace
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.WorkspaceResponse
// @Router /workspace [get]
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	ws, err := h.workspaceService.Get(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, ws)
}

// DispatchAction applies one action envelope to the workspace
// @Summary Dispatch a workspace action
// @Description Body is {"type": "...", "payload": {...}}. Types: add_transactions, clear_transactions, set_budget_amount, set_holding, remove_holding, set_balance, import_state, reset_all.
// @Tags Workspace
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} dto.WorkspaceResponse
// @Failure 400 {object} errors.ErrorResponse "WORKSPACE_001 or WORKSPACE_002"
// @Router /workspace/actions [post]
func (h *WorkspaceHandler) DispatchAction(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	payload, err := readPayload(c)
	if err != nil {
		return SendError(c, errors.WorkspaceInvalidPayload, errors.WithDetails(err.Error()))
	}

	ws, err := h.workspaceService.Dispatch(c.Request().Context(), userID, payload)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, ws)
}

// ExportWorkspace downloads the workspace as JSON
// @Summary Export workspace
// @Tags Workspace
// @Security BearerAuth
// @Produce json
// @Success 200 {object} workspace.State
// @Router /workspace/export [get]
func (h *WorkspaceHandler) ExportWorkspace(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	data, err := h.workspaceService.Export(userID)
	if err != nil {
		return SendServiceError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="workspace.json"`)
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, data)
}

// ImportWorkspace replaces the workspace with exported JSON
// @Summary Import workspace
// @Tags Workspace
// @Security BearerAuth
// @Accept json
// @Produce json
// @Success 200 {object} dto.WorkspaceResponse
// @Failure 400 {object} errors.ErrorResponse "WORKSPACE_002"
// @Router /workspace/import [post]
func (h *WorkspaceHandler) ImportWorkspace(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	payload, err := readPayload(c)
	if err != nil {
		return SendError(c, errors.WorkspaceInvalidPayload, errors.WithDetails(err.Error()))
	}

	ws, err := h.workspaceService.Import(c.Request().Context(), userID, payload)
	if err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, ws)
}

// ResetWorkspace discards the stored workspace
// @Summary Reset workspace
// @Tags Workspace
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router /workspace [delete]
func (h *WorkspaceHandler) ResetWorkspace(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	if err := h.workspaceService.Reset(c.Request().Context(), userID); err != nil {
		return SendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, SuccessResponse{Message: "Workspace reset"})
}

func readPayload(c echo.Context) ([]byte, error) {
	payload, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWorkspacePayload+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("body is empty")
	}
	if len(payload) > maxWorkspacePayload {
		return nil, fmt.Errorf("body exceeds %d bytes", maxWorkspacePayload)
	}
	return payload, nil
}
