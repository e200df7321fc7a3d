// Package graph provides a unified, high-level interface for querying a
// workspace snapshot.
//
// The Manager is a facade over a graphstore.Store. Goals and the HTTP
// server interact with it instead of the store directly; it adds the
// operations that need graph-wide knowledge (batch address resolution,
// transitive closure, closure-restricted adjacency lists) on top of the
// store's point lookups.
//
// All Manager methods are read-only and safe for concurrent use: the
// snapshot is immutable once loaded, so concurrent queries never interfere.
package graph
