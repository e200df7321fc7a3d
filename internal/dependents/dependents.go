// Package dependents implements reverse-dependency analysis: who depends
// on a given target, directly or transitively.
//
// The package is pure computation over an immutable snapshot. The reverse
// index is rebuilt from the full target set on every query rather than
// maintained incrementally, so it always reflects the current snapshot;
// with a workspace snapshot loaded once per invocation, rebuilding is the
// simpler and equally correct choice.
package dependents

import (
	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/target"
)

// ReverseIndex maps each address to the set of targets that declare it as
// a dependency.
type ReverseIndex map[address.Address]address.Set

// BuildReverseIndex inverts the forward dependency relation of the given
// targets. Conditional edges are always included: dependents analysis must
// not under-count because a predicate filtered an edge out.
//
// Absent entries simply mean "no dependents".
func BuildReverseIndex(targets []*target.Target) ReverseIndex {
	index := make(ReverseIndex)
	for _, tgt := range targets {
		for _, dep := range tgt.Dependencies(target.PolicyAll) {
			set, ok := index[dep]
			if !ok {
				set = address.NewSet()
				index[dep] = set
			}
			set.Add(tgt.Address)
		}
	}
	return index
}

// Dependents looks up the direct dependents of one address.
func (idx ReverseIndex) Dependents(addr address.Address) address.Set {
	if set, ok := idx[addr]; ok {
		return set
	}
	return address.NewSet()
}

// Request describes one dependents query.
type Request struct {
	Roots []address.Address

	// Transitive expands to the fixed point; false stops after a single
	// expansion hop.
	Transitive bool

	// IncludeRoots adds the roots themselves to the result. When false,
	// roots are explicitly removed: a cycle can pull a root back in as a
	// dependent of another root.
	IncludeRoots bool
}

// Find resolves a dependents query against a reverse index.
//
// The expansion iterates to a fixed point: each round unions the direct
// dependents of the previous round's frontier into the known set, and the
// frontier shrinks to the newly discovered addresses. Every round works on
// fresh set snapshots, which keeps the iteration easy to reason about and
// makes termination obvious (the known set only grows, and the graph is
// finite). An empty root set yields an empty result.
func Find(req Request, index ReverseIndex) address.Set {
	roots := address.NewSet(req.Roots...)
	known := address.NewSet()
	frontier := roots

	for {
		candidate := known
		for _, addr := range frontier.Sorted() {
			candidate = candidate.Union(index.Dependents(addr))
		}
		newFrontier := candidate.Difference(known)

		if newFrontier.IsEmpty() || !req.Transitive {
			if req.IncludeRoots {
				return candidate.Union(roots)
			}
			return candidate.Difference(roots)
		}

		known = candidate
		frontier = newFrontier
	}
}
