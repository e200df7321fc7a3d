// Package pgstore provides a PostgreSQL-backed implementation of the
// graphstore.Store interface via pgx.
//
// Snapshots are immutable rows: importing a workspace writes one snapshot
// with its targets and edges, and a Store view reads a single snapshot.
// Conditional dependency groups are flattened into edge rows carrying
// their group ordinal and evaluated enabled flag, so policy filtering
// happens in SQL and targets can be reconstructed with their groups.
package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements graphstore.Store over one snapshot in PostgreSQL.
type Store struct {
	db         *pgxpool.Pool
	snapshotID string
}

// New creates a Store view over the given snapshot.
func New(db *pgxpool.Pool, snapshotID string) *Store {
	return &Store{db: db, snapshotID: snapshotID}
}

// SnapshotID returns the snapshot this store reads from.
func (s *Store) SnapshotID() string {
	return s.snapshotID
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS depgrid_snapshots (
	id          UUID PRIMARY KEY,
	workspace   TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS depgrid_targets (
	snapshot_id UUID NOT NULL REFERENCES depgrid_snapshots(id) ON DELETE CASCADE,
	address     TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	tags        TEXT[] NOT NULL DEFAULT '{}',
	source_file TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (snapshot_id, address)
);

CREATE TABLE IF NOT EXISTS depgrid_deps (
	snapshot_id UUID NOT NULL REFERENCES depgrid_snapshots(id) ON DELETE CASCADE,
	dependent   TEXT NOT NULL,
	dependency  TEXT NOT NULL,
	ordinal     INT  NOT NULL,
	group_idx   INT  NOT NULL DEFAULT -1,
	enabled     BOOL NOT NULL DEFAULT TRUE,
	PRIMARY KEY (snapshot_id, dependent, ordinal)
);

CREATE INDEX IF NOT EXISTS depgrid_deps_by_dependent
	ON depgrid_deps (snapshot_id, dependent);
`

// CreateSchema creates the snapshot tables if they do not exist.
func CreateSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("pgstore: create schema: %w", err)
	}
	return nil
}

// DropSchema removes the snapshot tables.
func DropSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
		DROP TABLE IF EXISTS depgrid_deps;
		DROP TABLE IF EXISTS depgrid_targets;
		DROP TABLE IF EXISTS depgrid_snapshots;
	`)
	if err != nil {
		return fmt.Errorf("pgstore: drop schema: %w", err)
	}
	return nil
}

// DeleteSnapshot removes one snapshot; edge and target rows cascade.
// Deleting a snapshot that does not exist is not an error.
func DeleteSnapshot(ctx context.Context, db *pgxpool.Pool, snapshotID string) error {
	if _, err := db.Exec(ctx, `DELETE FROM depgrid_snapshots WHERE id = $1`, snapshotID); err != nil {
		return fmt.Errorf("pgstore: delete snapshot: %w", err)
	}
	return nil
}
