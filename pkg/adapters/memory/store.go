// Package memory provides an in-process fact store.
package memory

import (
	"context"
	"sync"

	"github.com/tomsilver/streamspec/pkg/domain"
)

// Store implements ports.FactStore in memory.
// Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	facts map[string]domain.Fact
}

// NewStore creates an empty in-memory fact store.
func NewStore() *Store {
	return &Store{facts: make(map[string]domain.Fact)}
}

// Seed creates a store pre-populated with facts, typically the planner's
// initial state.
func Seed(facts ...domain.Fact) *Store {
	s := NewStore()
	for _, f := range facts {
		s.facts[f.Key()] = f
	}
	return s
}

// Assert adds facts. Identity is by canonical key, so re-asserting is a no-op.
func (s *Store) Assert(_ context.Context, facts ...domain.Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range facts {
		s.facts[f.Key()] = f
	}
	return nil
}

// Holds reports whether the fact is present.
func (s *Store) Holds(_ context.Context, fact domain.Fact) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.facts[fact.Key()]
	return ok, nil
}

// Facts returns a snapshot of every held fact.
func (s *Store) Facts(_ context.Context) ([]domain.Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Fact, 0, len(s.facts))
	for _, f := range s.facts {
		out = append(out, f)
	}
	return out, nil
}

// Clear removes every fact.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facts = make(map[string]domain.Fact)
	return nil
}

// Len returns the current fact count.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facts)
}
