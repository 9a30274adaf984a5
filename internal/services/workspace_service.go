package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"pfm-api/internal/dto"
	"pfm-api/internal/ledger"
	"pfm-api/internal/models"
	"pfm-api/internal/repositories"
	"pfm-api/internal/workspace"

	"github.com/google/uuid"
)

type WorkspaceService struct {
	workspaceRepo repositories.WorkspaceRepositoryInterface
	auditService  AuditServiceInterface
	auditLogger   AuditLoggerInterface
	metrics       MetricsRecorderInterface
	logger        *slog.Logger
}

func NewWorkspaceService(
	workspaceRepo repositories.WorkspaceRepositoryInterface,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) WorkspaceServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		auditService:  auditService,
		auditLogger:   auditLogger,
		metrics:       metrics,
		logger:        logger,
	}
}

// Get returns the stored workspace. Users without one get the default
// workspace at version 0.
func (s *WorkspaceService) Get(userID uuid.UUID) (*dto.WorkspaceResponse, error) {
	store, stored, err := s.load(userID)
	if err != nil {
		return nil, err
	}

	resp := &dto.WorkspaceResponse{State: store.Snapshot()}
	if stored != nil {
		resp.Version = stored.Version
		resp.UpdatedAt = stored.UpdatedAt
	}
	return resp, nil
}

// Dispatch decodes an action envelope, applies it to the stored workspace and
// saves the result. The row stays locked from read to write so concurrent
// actions of one user apply in turn. A rejected action leaves the stored
// workspace unchanged.
func (s *WorkspaceService) Dispatch(ctx context.Context, userID uuid.UUID, payload []byte) (*dto.WorkspaceResponse, error) {
	action, err := workspace.DecodeAction(payload)
	if err != nil {
		return nil, err
	}

	var skipped []ledger.Skip
	resp, err := s.commit(ctx, userID, action.Type(), func(current *models.WorkspaceState) (*workspace.Store, error) {
		store := s.storeFrom(userID, current)
		result, err := store.Dispatch(action)
		if err != nil {
			return nil, err
		}
		skipped = result
		return store, nil
	})
	if err != nil {
		return nil, err
	}
	resp.Skipped = skipped
	return resp, nil
}

// Export returns the stored workspace as JSON
func (s *WorkspaceService) Export(userID uuid.UUID) ([]byte, error) {
	store, _, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return store.Export()
}

// Import replaces the workspace with previously exported JSON. Unknown or
// malformed fields fall back to defaults.
func (s *WorkspaceService) Import(ctx context.Context, userID uuid.UUID, data []byte) (*dto.WorkspaceResponse, error) {
	store, err := workspace.Load(data, s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", workspace.ErrInvalidPayload, err)
	}
	return s.commit(ctx, userID, workspace.ActionImportState, func(*models.WorkspaceState) (*workspace.Store, error) {
		return store, nil
	})
}

// Reset deletes the stored workspace so the next read starts from defaults
func (s *WorkspaceService) Reset(ctx context.Context, userID uuid.UUID) error {
	if err := s.workspaceRepo.Delete(userID); err != nil {
		return err
	}

	s.metrics.IncrementCounter(MetricWorkspaceAction, map[string]string{"action": workspace.ActionResetAll})
	s.auditLogger.LogWorkspaceAction(ctx, userID, workspace.ActionResetAll, 0)
	s.auditService.Record(userID, models.AuditActionWorkspaceReset, "workspace", userID.String(), nil)
	return nil
}

func (s *WorkspaceService) load(userID uuid.UUID) (*workspace.Store, *models.WorkspaceState, error) {
	stored, err := s.workspaceRepo.Get(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			return workspace.NewStore(s.logger), nil, nil
		}
		return nil, nil, err
	}
	return s.storeFrom(userID, stored), stored, nil
}

// storeFrom rebuilds a store from a stored row. Missing or unreadable rows
// start from defaults.
func (s *WorkspaceService) storeFrom(userID uuid.UUID, stored *models.WorkspaceState) *workspace.Store {
	if stored == nil {
		return workspace.NewStore(s.logger)
	}
	store, err := workspace.Load([]byte(stored.State), s.logger)
	if err != nil {
		s.logger.Warn("stored workspace is unreadable, starting from defaults",
			"user_id", userID,
			"version", stored.Version,
			"error", err)
		return workspace.NewStore(s.logger)
	}
	return store
}

// commit builds the next store from the locked row and persists it
func (s *WorkspaceService) commit(
	ctx context.Context,
	userID uuid.UUID,
	actionType string,
	next func(current *models.WorkspaceState) (*workspace.Store, error),
) (*dto.WorkspaceResponse, error) {
	var store *workspace.Store
	saved, err := s.workspaceRepo.Update(userID, func(current *models.WorkspaceState) (string, error) {
		built, err := next(current)
		if err != nil {
			return "", err
		}
		data, err := built.Export()
		if err != nil {
			return "", err
		}
		store = built
		return string(data), nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncrementCounter(MetricWorkspaceAction, map[string]string{"action": actionType})
	s.auditLogger.LogWorkspaceAction(ctx, userID, actionType, saved.Version)
	s.auditService.Record(userID, models.AuditActionWorkspaceSaved, "workspace", userID.String(), map[string]interface{}{
		"action":  actionType,
		"version": strconv.Itoa(saved.Version),
	})

	return &dto.WorkspaceResponse{
		State:     store.Snapshot(),
		Version:   saved.Version,
		UpdatedAt: saved.UpdatedAt,
	}, nil
}
