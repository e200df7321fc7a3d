package graph

import (
	"context"
	"fmt"

	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/ctxlog"
	"github.com/vk/depgridgo/internal/graphstore"
	"github.com/vk/depgridgo/internal/target"
)

// Manager answers graph-wide queries against one workspace snapshot.
type Manager struct {
	store graphstore.Store
}

// New creates a manager over the given topology store.
func New(store graphstore.Store) *Manager {
	return &Manager{store: store}
}

// AllTargets returns every target in the snapshot. Order is not guaranteed.
func (m *Manager) AllTargets(ctx context.Context) []*target.Target {
	return m.store.AllTargets(ctx)
}

// Target retrieves a single target by address.
func (m *Manager) Target(ctx context.Context, addr address.Address) (*target.Target, bool) {
	return m.store.Target(ctx, addr)
}

// DependenciesOf returns the forward dependency addresses of a target
// under the given traversal policy, in declaration order.
func (m *Manager) DependenciesOf(ctx context.Context, addr address.Address, policy target.Policy) ([]address.Address, error) {
	return m.store.DependenciesOf(ctx, addr, policy)
}

// ResolveAddresses parses a batch of address specs and verifies each one
// names a declared target. Any unresolvable spec is a configuration error
// reported before graph computation starts; no partial results are
// produced.
func (m *Manager) ResolveAddresses(ctx context.Context, specs []string) ([]address.Address, error) {
	addrs := make([]address.Address, 0, len(specs))
	for _, spec := range specs {
		addr, err := address.Parse(spec)
		if err != nil {
			return nil, err
		}
		if _, ok := m.store.Target(ctx, addr); !ok {
			return nil, fmt.Errorf("no target declared at address %s", addr)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// TransitiveClosure returns every target address reachable from the roots
// by following forward dependency edges under the given policy, roots
// included. The walk is an iterative breadth-first expansion, so cycles
// are handled naturally: an address already discovered is never re-queued.
func (m *Manager) TransitiveClosure(ctx context.Context, roots []address.Address, policy target.Policy) ([]address.Address, error) {
	logger := ctxlog.FromContext(ctx)

	visited := address.NewSet()
	var order []address.Address
	frontier := make([]address.Address, 0, len(roots))

	for _, root := range roots {
		if visited.Contains(root) {
			continue
		}
		visited.Add(root)
		order = append(order, root)
		frontier = append(frontier, root)
	}

	for len(frontier) > 0 {
		var next []address.Address
		for _, addr := range frontier {
			deps, err := m.store.DependenciesOf(ctx, addr, policy)
			if err != nil {
				return nil, fmt.Errorf("resolving closure: %w", err)
			}
			for _, dep := range deps {
				if visited.Contains(dep) {
					continue
				}
				visited.Add(dep)
				order = append(order, dep)
				next = append(next, dep)
			}
		}
		frontier = next
	}

	logger.Debug("Transitive closure resolved.", "roots", len(roots), "closure_size", len(order))
	return order, nil
}

// Adjacency returns the forward adjacency lists, in declaration order,
// restricted to the transitive closure of root under the given policy. The
// path enumerator walks exactly this map; restricting it up front keeps the
// enumeration bounded by the reachable subgraph.
func (m *Manager) Adjacency(ctx context.Context, root address.Address, policy target.Policy) (map[address.Address][]address.Address, error) {
	closure, err := m.TransitiveClosure(ctx, []address.Address{root}, policy)
	if err != nil {
		return nil, err
	}

	adjacency := make(map[address.Address][]address.Address, len(closure))
	for _, addr := range closure {
		deps, err := m.store.DependenciesOf(ctx, addr, policy)
		if err != nil {
			return nil, fmt.Errorf("building adjacency: %w", err)
		}
		adjacency[addr] = deps
	}
	return adjacency, nil
}
