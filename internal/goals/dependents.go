package goals

import (
	"context"
	"fmt"
	"io"

	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/ctxlog"
	"github.com/vk/depgridgo/internal/dependents"
	"github.com/vk/depgridgo/internal/graph"
)

// DependentsOptions configures one run of the dependents goal.
type DependentsOptions struct {
	// Roots are the address specs whose dependents are requested.
	Roots []string

	// Transitive lists all transitive dependents instead of direct only.
	Transitive bool

	// IncludeRoots adds the input targets themselves to the output.
	IncludeRoots bool

	// Format is FormatText (one sorted list) or FormatJSON (per-root map).
	Format string

	// Workers bounds the per-root fan-out in JSON mode.
	Workers int
}

// Dependents lists the targets that depend on the given roots.
//
// Text mode answers a single query over all roots and prints the sorted
// result one address per line. JSON mode answers one query per root so the
// output maps each input address to its own sorted dependents list; the
// per-root queries are independent and run concurrently.
func Dependents(ctx context.Context, m *graph.Manager, opts DependentsOptions, outW io.Writer) error {
	logger := ctxlog.FromContext(ctx)

	roots, err := m.ResolveAddresses(ctx, opts.Roots)
	if err != nil {
		return fmt.Errorf("resolving dependents roots: %w", err)
	}

	index := dependents.BuildReverseIndex(m.AllTargets(ctx))
	logger.Debug("Reverse dependency index built.", "entries", len(index))

	switch opts.Format {
	case FormatText, "":
		result := dependents.Find(dependents.Request{
			Roots:        roots,
			Transitive:   opts.Transitive,
			IncludeRoots: opts.IncludeRoots,
		}, index)
		return writeLines(outW, result.Sorted())

	case FormatJSON:
		results := make([]address.Set, len(roots))
		fanOut(opts.Workers, len(roots), func(i int) {
			results[i] = dependents.Find(dependents.Request{
				Roots:        []address.Address{roots[i]},
				Transitive:   opts.Transitive,
				IncludeRoots: opts.IncludeRoots,
			}, index)
		})
		return writeJSON(outW, perRootMapping(roots, results), "    ")

	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}
