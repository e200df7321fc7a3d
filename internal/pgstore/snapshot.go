package pgstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vk/depgridgo/internal/ctxlog"
	"github.com/vk/depgridgo/internal/model"
	"github.com/vk/depgridgo/internal/target"
)

// ImportWorkspace uploads a loaded workspace as a new snapshot and returns
// its generated id. The whole import runs in one transaction: a snapshot
// either exists completely or not at all.
func ImportWorkspace(ctx context.Context, db *pgxpool.Pool, ws *model.Workspace) (string, error) {
	logger := ctxlog.FromContext(ctx)
	snapshotID := uuid.NewString()

	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("pgstore: begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO depgrid_snapshots (id, workspace) VALUES ($1, $2)`,
		snapshotID, ws.Root,
	)
	if err != nil {
		return "", fmt.Errorf("pgstore: insert snapshot: %w", err)
	}

	for _, tgt := range ws.Targets {
		if err := insertTarget(ctx, tx, snapshotID, tgt); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("pgstore: commit import: %w", err)
	}

	logger.Info("Workspace snapshot imported.", "snapshot_id", snapshotID, "targets", len(ws.Targets))
	return snapshotID, nil
}

// insertTarget writes one target row plus its flattened edge rows.
func insertTarget(ctx context.Context, tx pgx.Tx, snapshotID string, tgt *target.Target) error {
	tags := tgt.Tags
	if tags == nil {
		tags = []string{}
	}

	_, err := tx.Exec(ctx,
		`INSERT INTO depgrid_targets (snapshot_id, address, description, tags, source_file)
		 VALUES ($1, $2, $3, $4, $5)`,
		snapshotID, tgt.Address.String(), tgt.Description, tags, tgt.File,
	)
	if err != nil {
		return fmt.Errorf("pgstore: insert target %s: %w", tgt.Address, err)
	}

	ordinal := 0
	insertEdge := func(dep string, groupIdx int, enabled bool) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO depgrid_deps (snapshot_id, dependent, dependency, ordinal, group_idx, enabled)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			snapshotID, tgt.Address.String(), dep, ordinal, groupIdx, enabled,
		)
		if err != nil {
			return fmt.Errorf("pgstore: insert edge %s -> %s: %w", tgt.Address, dep, err)
		}
		ordinal++
		return nil
	}

	for _, dep := range tgt.Deps {
		if err := insertEdge(dep.String(), -1, true); err != nil {
			return err
		}
	}
	for groupIdx, group := range tgt.Optional {
		for _, dep := range group.Deps {
			if err := insertEdge(dep.String(), groupIdx, group.Enabled); err != nil {
				return err
			}
		}
	}
	return nil
}
