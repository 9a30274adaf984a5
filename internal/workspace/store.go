package workspace

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"pfm-api/internal/ledger"
)

// Store serializes actions against a workspace State. Callers read copies
// through Snapshot and never mutate state directly.
type Store struct {
	mu         sync.Mutex
	state      State
	normalizer *ledger.Normalizer
	logger     *slog.Logger
}

// NewStore returns a store holding the default workspace.
func NewStore(logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		state:      DefaultState(),
		normalizer: ledger.NewNormalizer(logger),
		logger:     logger,
	}
}

// Load returns a store restored from exported JSON. Empty data yields the
// default workspace.
func Load(data []byte, logger *slog.Logger) (*Store, error) {
	s := NewStore(logger)
	if len(data) == 0 {
		return s, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode workspace: %w", err)
	}
	if _, err := s.Dispatch(ImportState{Data: raw}); err != nil {
		return nil, err
	}
	return s, nil
}

// Dispatch applies an action. A failing action leaves the state untouched.
// Rows dropped during normalization are returned.
func (s *Store) Dispatch(action Action) ([]ledger.Skip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	e := &env{normalizer: s.normalizer}
	if err := action.apply(&next, e); err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", action.Type(), err)
	}
	s.state = next

	s.logger.Debug("workspace action applied",
		"action", action.Type(),
		"transactions", len(next.Transactions),
		"skipped", len(e.skipped))

	return e.skipped, nil
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Export returns the state as JSON.
func (s *Store) Export() ([]byte, error) {
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return nil, fmt.Errorf("failed to encode workspace: %w", err)
	}
	return data, nil
}
