// Package graphstore defines the interface for storing and retrieving the
// static structure of a target dependency graph.
//
// The store holds the immutable topology of one workspace snapshot: the
// declared targets and their forward dependency edges. It is populated once
// during the load phase and is read-only for the lifetime of the snapshot;
// queries (dependents, paths, the HTTP API) only ever read from it.
//
// Implementations MUST be safe for concurrent reads, since independent
// queries fan out across goroutines against the same snapshot. See
// internal/inmemorygraph for the default map-backed implementation and
// internal/pgstore for the postgres-backed one.
package graphstore

import (
	"context"

	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/target"
)

// Store is the interface for the static topology of a workspace snapshot.
type Store interface {
	// AddTarget registers a target in the topology. It is called only
	// during the load phase. Registering two targets with the same address
	// is an error; the loader guarantees uniqueness, so a duplicate here
	// indicates an inconsistent snapshot.
	AddTarget(ctx context.Context, t *target.Target) error

	// Target retrieves a single target by its address. It returns the
	// target and true if found, or nil and false otherwise.
	Target(ctx context.Context, addr address.Address) (*target.Target, bool)

	// AllTargets returns every target in the snapshot. Order is not
	// guaranteed; callers sort when they need deterministic output.
	AllTargets(ctx context.Context) []*target.Target

	// DependenciesOf returns the forward dependency addresses of the given
	// target under the given traversal policy, in declaration order. It
	// returns an error if the target is not in the snapshot.
	DependenciesOf(ctx context.Context, addr address.Address, policy target.Policy) ([]address.Address, error)
}
