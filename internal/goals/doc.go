// Package goals implements the user-facing query operations: dependents,
// dependencies, and paths.
//
// Each goal resolves its input addresses up front (so configuration errors
// surface before any graph work), runs the pure algorithms from the
// dependents and paths packages against the snapshot, and writes
// deterministic, sorted output. Per-root queries in JSON mode are
// independent and fan out across a bounded worker pool; the algorithms
// themselves stay synchronous and share no state.
package goals
