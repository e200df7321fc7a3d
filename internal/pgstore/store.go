package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/graphstore"
	"github.com/vk/depgridgo/internal/target"
)

// AddTarget is not supported on a snapshot view; snapshots are written
// through ImportWorkspace only.
func (s *Store) AddTarget(ctx context.Context, t *target.Target) error {
	return errors.New("pgstore: snapshots are immutable; use ImportWorkspace")
}

// Target fetches a single target of the snapshot by address.
func (s *Store) Target(ctx context.Context, addr address.Address) (*target.Target, bool) {
	row := s.db.QueryRow(ctx,
		`SELECT address, description, tags, source_file
		 FROM depgrid_targets WHERE snapshot_id = $1 AND address = $2`,
		s.snapshotID, addr.String(),
	)

	tgt, err := s.scanTarget(ctx, row)
	if err != nil {
		return nil, false
	}
	return tgt, true
}

// AllTargets returns every target of the snapshot.
func (s *Store) AllTargets(ctx context.Context) []*target.Target {
	rows, err := s.db.Query(ctx,
		`SELECT address, description, tags, source_file
		 FROM depgrid_targets WHERE snapshot_id = $1 ORDER BY address`,
		s.snapshotID,
	)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var targets []*target.Target
	for rows.Next() {
		tgt, err := s.scanTarget(ctx, rows)
		if err != nil {
			return nil
		}
		targets = append(targets, tgt)
	}
	if rows.Err() != nil {
		return nil
	}
	return targets
}

// DependenciesOf returns the dependency addresses of a target under the
// given policy, in declaration order.
func (s *Store) DependenciesOf(ctx context.Context, addr address.Address, policy target.Policy) ([]address.Address, error) {
	if _, ok := s.Target(ctx, addr); !ok {
		return nil, fmt.Errorf("pgstore: target %s not found in snapshot %s", addr, s.snapshotID)
	}

	query := `SELECT dependency FROM depgrid_deps
	          WHERE snapshot_id = $1 AND dependent = $2 ORDER BY ordinal`
	if policy == target.PolicyEnabled {
		query = `SELECT dependency FROM depgrid_deps
		         WHERE snapshot_id = $1 AND dependent = $2 AND enabled ORDER BY ordinal`
	}

	rows, err := s.db.Query(ctx, query, s.snapshotID, addr.String())
	if err != nil {
		return nil, fmt.Errorf("pgstore: list deps of %s: %w", addr, err)
	}
	defer rows.Close()

	deps := []address.Address{}
	seen := make(map[address.Address]struct{})
	for rows.Next() {
		var spec string
		if err := rows.Scan(&spec); err != nil {
			return nil, fmt.Errorf("pgstore: scan dep: %w", err)
		}
		dep, err := address.Parse(spec)
		if err != nil {
			return nil, fmt.Errorf("pgstore: inconsistent snapshot, bad stored dependency %q: %w", spec, err)
		}
		if _, dup := seen[dep]; dup {
			continue
		}
		seen[dep] = struct{}{}
		deps = append(deps, dep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgstore: rows deps: %w", err)
	}
	return deps, nil
}

// scanTarget reads one target row and rehydrates its dependency edges.
func (s *Store) scanTarget(ctx context.Context, row pgx.Row) (*target.Target, error) {
	var spec, description, sourceFile string
	var tags []string
	if err := row.Scan(&spec, &description, &tags, &sourceFile); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("pgstore: scan target: %w", err)
	}

	addr, err := address.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("pgstore: inconsistent snapshot, bad stored address %q: %w", spec, err)
	}

	tgt := &target.Target{
		Address:     addr,
		Description: description,
		Tags:        tags,
		File:        sourceFile,
	}
	if err := s.loadEdges(ctx, tgt); err != nil {
		return nil, err
	}
	return tgt, nil
}

// loadEdges rebuilds a target's unconditional deps and conditional groups
// from its flattened edge rows. The original `when` expressions are not
// persisted; groups come back with only their evaluated enabled flag,
// which is all the query layer needs.
func (s *Store) loadEdges(ctx context.Context, tgt *target.Target) error {
	rows, err := s.db.Query(ctx,
		`SELECT dependency, group_idx, enabled FROM depgrid_deps
		 WHERE snapshot_id = $1 AND dependent = $2 ORDER BY ordinal`,
		s.snapshotID, tgt.Address.String(),
	)
	if err != nil {
		return fmt.Errorf("pgstore: load edges of %s: %w", tgt.Address, err)
	}
	defer rows.Close()

	groups := make(map[int]*target.OptionalDeps)
	var groupOrder []int
	for rows.Next() {
		var spec string
		var groupIdx int
		var enabled bool
		if err := rows.Scan(&spec, &groupIdx, &enabled); err != nil {
			return fmt.Errorf("pgstore: scan edge: %w", err)
		}
		dep, err := address.Parse(spec)
		if err != nil {
			return fmt.Errorf("pgstore: inconsistent snapshot, bad stored dependency %q: %w", spec, err)
		}

		if groupIdx < 0 {
			tgt.Deps = append(tgt.Deps, dep)
			continue
		}
		group, ok := groups[groupIdx]
		if !ok {
			group = &target.OptionalDeps{Enabled: enabled}
			groups[groupIdx] = group
			groupOrder = append(groupOrder, groupIdx)
		}
		group.Deps = append(group.Deps, dep)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("pgstore: rows edges: %w", err)
	}

	for _, idx := range groupOrder {
		tgt.Optional = append(tgt.Optional, *groups[idx])
	}
	return nil
}

var _ graphstore.Store = (*Store)(nil)
