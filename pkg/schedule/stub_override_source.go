package schedule

import (
	"context"
	"errors"
	"sync"
)

type OverrideSourceStub struct {
	mu        sync.RWMutex
	overrides map[string][]TimeEntry
	errs      map[string]error
	lookups   []string
}

func NewOverrideSourceStub() *OverrideSourceStub {
	return &OverrideSourceStub{
		overrides: make(map[string][]TimeEntry),
		errs:      make(map[string]error),
	}
}

func (s *OverrideSourceStub) Lookup(_ context.Context, key string) ([]TimeEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups = append(s.lookups, key)

	if err, exists := s.errs[key]; exists {
		return nil, false, err
	}
	entries, exists := s.overrides[key]
	if !exists {
		return nil, false, nil
	}
	result := make([]TimeEntry, len(entries))
	copy(result, entries)
	return result, true, nil
}

// Helper methods for test setup

func (s *OverrideSourceStub) Set(key string, entries []TimeEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[key] = make([]TimeEntry, len(entries))
	copy(s.overrides[key], entries)
}

func (s *OverrideSourceStub) SetError(key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[key] = err
}

func (s *OverrideSourceStub) Lookups() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]string, len(s.lookups))
	copy(result, s.lookups)
	return result
}

func (s *OverrideSourceStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = make(map[string][]TimeEntry)
	s.errs = make(map[string]error)
	s.lookups = nil
}

var ErrOverrideSourceTestError = errors.New("override source test error")
