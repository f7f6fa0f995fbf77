package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/gddforge/orchestrator"
)

// ErrNotFound is returned when no run exists for the requested id.
var ErrNotFound = fmt.Errorf("run not found")

// Store records completed refinement runs keyed by their run id.
type Store interface {
	Save(result *orchestrator.Result) error
	Get(runID string) (*orchestrator.Result, error)
	List() ([]*orchestrator.Result, error)
}

// InMemoryStore is a volatile Store implementation keeping runs in a process
// local map. It is safe for concurrent access and best suited for tests or
// short-lived CLI sessions.
type InMemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*orchestrator.Result
}

// NewInMemoryStore constructs an empty in-memory run store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{runs: make(map[string]*orchestrator.Result)}
}

// Save stores a completed run. Results are immutable once produced, so no
// defensive copy is needed.
func (s *InMemoryStore) Save(result *orchestrator.Result) error {
	if result == nil || result.RunID == "" {
		return fmt.Errorf("result requires a run id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[result.RunID] = result
	return nil
}

// Get returns the run with the given id or ErrNotFound.
func (s *InMemoryStore) Get(runID string) (*orchestrator.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, ok := s.runs[runID]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
}

// List returns all stored runs ordered by run id.
func (s *InMemoryStore) List() ([]*orchestrator.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*orchestrator.Result, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RunID < out[j].RunID })
	return out, nil
}
