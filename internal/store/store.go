// Package store holds cleaned datasets in memory between an upload and the
// analysis requests that follow it. Nothing is persisted; a dataset lives
// only as long as the process.
package store

import (
	"sort"
	"sync"

	"turbine_optimizer/internal/model"
)

// Store is an in-memory registry of named datasets.
type Store struct {
	mu       sync.RWMutex
	datasets map[string]*model.Table
}

func New() *Store {
	return &Store{
		datasets: make(map[string]*model.Table),
	}
}

// Put registers a dataset under a name, replacing any previous one.
func (s *Store) Put(name string, t *model.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.datasets[name] = t
}

// Get returns the dataset registered under name.
func (s *Store) Get(name string) (*model.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.datasets[name]
	return t, ok
}

// Delete removes a dataset. Removing an unknown name is a no-op.
func (s *Store) Delete(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.datasets, name)
}

// Names returns all registered dataset names, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.datasets))
	for name := range s.datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered datasets.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.datasets)
}
