// Package paths enumerates dependency paths between targets.
//
// The enumerator is a breadth-first search over paths, not over nodes: the
// queue holds partial paths, each dequeue extends one path by one hop, and
// results therefore come out in non-decreasing length order. Cycle safety
// comes from a visited-edge set rather than a visited-node set, so a node
// may legitimately be re-entered through a different predecessor — using
// node-visited tracking instead would change which paths are enumerated.
package paths

import (
	"github.com/vk/depgridgo/internal/address"
)

// Adjacency holds forward dependency edges, in declaration order,
// restricted to the transitive closure of one root. The enumerator walks
// exactly what it is given; it does not filter reachability itself.
type Adjacency map[address.Address][]address.Address

// edge identifies one traversed hop. A zero prev marks the root hop (the
// zero Address is never a valid target, so it is free to act as "none").
type edge struct {
	prev, cur address.Address
}

// FindBreadthFirst returns every path from root to destination through the
// given adjacency lists, ordered by non-decreasing length. Within a length
// tier the order follows dependency declaration order.
//
// Each directed edge is expanded at most once per enumeration, which
// bounds the work on cyclic graphs. A destination is yielded and never
// expanded past; a root equal to its destination yields only the trivial
// one-element path.
func FindBreadthFirst(adjacency Adjacency, root, destination address.Address) [][]address.Address {
	if root.Equal(destination) {
		return [][]address.Address{{root}}
	}

	var found [][]address.Address
	visited := make(map[edge]struct{})
	queue := [][]address.Address{{root}}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		cur := path[len(path)-1]
		var prev address.Address
		if len(path) > 1 {
			prev = path[len(path)-2]
		}
		curEdge := edge{prev: prev, cur: cur}

		if _, seen := visited[curEdge]; seen {
			continue
		}
		visited[curEdge] = struct{}{}

		for _, dep := range adjacency[cur] {
			next := make([]address.Address, len(path), len(path)+1)
			copy(next, path)
			next = append(next, dep)

			if dep.Equal(destination) {
				found = append(found, next)
			} else {
				queue = append(queue, next)
			}
		}
	}

	return found
}

// AdjacencyFunc supplies the closure-restricted adjacency lists for one
// root. The graph facade provides this; keeping it a function keeps the
// enumeration logic independent of any store.
type AdjacencyFunc func(root address.Address) (Adjacency, error)

// Between enumerates paths for every root × destination combination and
// concatenates the results, roots in the order given, destinations in the
// order given within each root. Runs share no state; an unreachable
// destination simply contributes zero paths.
func Between(adjacencyFor AdjacencyFunc, roots, destinations []address.Address) ([][]address.Address, error) {
	var all [][]address.Address
	for _, root := range roots {
		adjacency, err := adjacencyFor(root)
		if err != nil {
			return nil, err
		}
		for _, destination := range destinations {
			all = append(all, FindBreadthFirst(adjacency, root, destination)...)
		}
	}
	return all, nil
}
