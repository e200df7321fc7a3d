// Package inmemorygraph provides a simple, thread-safe, in-memory
// implementation of the graphstore.Store interface.
package inmemorygraph

import (
	"context"
	"fmt"
	"sync"

	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/graphstore"
	"github.com/vk/depgridgo/internal/model"
	"github.com/vk/depgridgo/internal/target"
)

// Store implements graphstore.Store using a map and an RWMutex. Writes
// happen only during the load phase; queries afterwards are read-only.
type Store struct {
	mu      sync.RWMutex
	targets map[address.Address]*target.Target
}

// New creates a new, empty in-memory store.
func New() *Store {
	return &Store{
		targets: make(map[address.Address]*target.Target),
	}
}

// FromWorkspace creates a store populated with every target of the given
// workspace snapshot.
func FromWorkspace(ctx context.Context, ws *model.Workspace) (*Store, error) {
	s := New()
	for _, tgt := range ws.Targets {
		if err := s.AddTarget(ctx, tgt); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddTarget adds a target to the store.
func (s *Store) AddTarget(ctx context.Context, t *target.Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.targets[t.Address]; exists {
		return fmt.Errorf("target %s already registered", t.Address)
	}
	s.targets[t.Address] = t
	return nil
}

// Target retrieves a single target by its address.
func (s *Store) Target(ctx context.Context, addr address.Address) (*target.Target, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.targets[addr]
	return t, ok
}

// AllTargets returns a snapshot slice of all targets.
func (s *Store) AllTargets(ctx context.Context) []*target.Target {
	s.mu.RLock()
	defer s.mu.RUnlock()

	targets := make([]*target.Target, 0, len(s.targets))
	for _, t := range s.targets {
		targets = append(targets, t)
	}
	return targets
}

// DependenciesOf returns the forward dependency addresses of a target
// under the given policy.
func (s *Store) DependenciesOf(ctx context.Context, addr address.Address, policy target.Policy) ([]address.Address, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.targets[addr]
	if !ok {
		return nil, fmt.Errorf("target %s not found in snapshot", addr)
	}
	return t.Dependencies(policy), nil
}

var _ graphstore.Store = (*Store)(nil)
