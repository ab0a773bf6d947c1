package store

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemStore is the in-memory Store, for tests and dry runs.
type MemStore struct {
	mu      sync.Mutex
	runs    map[int64]*Run
	results map[int64][]*UnitResult
	nextID  int64
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		runs:    make(map[int64]*Run),
		results: make(map[int64][]*UnitResult),
	}
}

func (s *MemStore) CreateRun(run *Run) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	stored := *run
	stored.ID = s.nextID
	stored.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	s.runs[stored.ID] = &stored
	return stored.ID, nil
}

func (s *MemStore) SaveUnitResult(runID int64, res *UnitResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return fmt.Errorf("run %d: %w", runID, ErrNotFound)
	}
	stored := *res
	s.results[runID] = append(s.results[runID], &stored)
	return nil
}

func (s *MemStore) GetRun(runID int64) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run %d: %w", runID, ErrNotFound)
	}
	cp := *run
	return &cp, nil
}

func (s *MemStore) ListRuns() ([]*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Run, 0, len(s.runs))
	for _, run := range s.runs {
		cp := *run
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemStore) GetUnitResults(runID int64) ([]*UnitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[runID]; !ok {
		return nil, fmt.Errorf("run %d: %w", runID, ErrNotFound)
	}
	results := s.results[runID]
	out := make([]*UnitResult, len(results))
	for i, res := range results {
		cp := *res
		out[i] = &cp
	}
	return out, nil
}

func (s *MemStore) Close() error { return nil }
