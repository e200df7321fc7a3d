package goals

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/ctxlog"
	"github.com/vk/depgridgo/internal/graph"
	"github.com/vk/depgridgo/internal/paths"
	"github.com/vk/depgridgo/internal/target"
)

// PathsOptions configures one run of the paths goal.
type PathsOptions struct {
	// From and To are the address specs of the path endpoints. Both are
	// required; either may name several targets.
	From []string
	To   []string
}

// Paths lists every dependency path from each `from` target to each `to`
// target as a JSON array of address-string arrays. Pairs are processed in
// root-then-destination order; an unreachable destination contributes no
// paths and no error.
func Paths(ctx context.Context, m *graph.Manager, opts PathsOptions, outW io.Writer) error {
	logger := ctxlog.FromContext(ctx)

	if len(opts.From) == 0 {
		return errors.New("must set --from")
	}
	if len(opts.To) == 0 {
		return errors.New("must set --to")
	}

	roots, err := m.ResolveAddresses(ctx, opts.From)
	if err != nil {
		return fmt.Errorf("resolving --from: %w", err)
	}
	destinations, err := m.ResolveAddresses(ctx, opts.To)
	if err != nil {
		return fmt.Errorf("resolving --to: %w", err)
	}

	adjacencyFor := func(root address.Address) (paths.Adjacency, error) {
		adj, err := m.Adjacency(ctx, root, target.PolicyAll)
		if err != nil {
			return nil, err
		}
		return paths.Adjacency(adj), nil
	}

	found, err := paths.Between(adjacencyFor, roots, destinations)
	if err != nil {
		return err
	}
	logger.Debug("Path enumeration finished.", "roots", len(roots), "destinations", len(destinations), "paths", len(found))

	specPaths := make([][]string, 0, len(found))
	for _, p := range found {
		specPaths = append(specPaths, address.Specs(p))
	}
	return writeJSON(outW, specPaths, "  ")
}
