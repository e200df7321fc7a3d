package goals

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/graph"
	"github.com/vk/depgridgo/internal/target"
)

// DependenciesOptions configures one run of the dependencies goal.
type DependenciesOptions struct {
	Roots        []string
	Transitive   bool
	IncludeRoots bool
	Format       string
	Workers      int
}

// Dependencies lists the forward dependencies of the given roots, the
// mirror image of the dependents goal. Unlike dependents analysis, it
// resolves with the enabled-only policy: conditional dependency groups
// whose predicate is off do not appear in the listing.
func Dependencies(ctx context.Context, m *graph.Manager, opts DependenciesOptions, outW io.Writer) error {
	roots, err := m.ResolveAddresses(ctx, opts.Roots)
	if err != nil {
		return fmt.Errorf("resolving dependencies roots: %w", err)
	}

	switch opts.Format {
	case FormatText, "":
		result, err := findDependencies(ctx, m, roots, opts.Transitive, opts.IncludeRoots)
		if err != nil {
			return err
		}
		return writeLines(outW, result.Sorted())

	case FormatJSON:
		results := make([]address.Set, len(roots))
		errs := make([]error, len(roots))
		fanOut(opts.Workers, len(roots), func(i int) {
			results[i], errs[i] = findDependencies(ctx, m, []address.Address{roots[i]}, opts.Transitive, opts.IncludeRoots)
		})
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
		return writeJSON(outW, perRootMapping(roots, results), "    ")

	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// findDependencies resolves the forward dependency set of the roots. The
// include-roots post-processing mirrors the dependents goal: a root may be
// rediscovered through a cycle, so the non-inclusive mode subtracts roots
// explicitly.
func findDependencies(ctx context.Context, m *graph.Manager, roots []address.Address, transitive, includeRoots bool) (address.Set, error) {
	rootSet := address.NewSet(roots...)
	result := address.NewSet()

	if transitive {
		closure, err := m.TransitiveClosure(ctx, roots, target.PolicyEnabled)
		if err != nil {
			return address.Set{}, err
		}
		result = address.NewSet(closure...)
	} else {
		for _, root := range roots {
			deps, err := m.DependenciesOf(ctx, root, target.PolicyEnabled)
			if err != nil {
				return address.Set{}, err
			}
			result = result.Union(address.NewSet(deps...))
		}
	}

	if includeRoots {
		return result.Union(rootSet), nil
	}
	return result.Difference(rootSet), nil
}
