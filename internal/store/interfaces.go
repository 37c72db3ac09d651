package store

import (
	"context"

	"github.com/nabcos/acd-cli/models"
)

// CheckpointRepository persists the single opaque sync cursor handed out by
// the remote changes API.
type CheckpointRepository interface {
	// GetCheckpoint returns the persisted cursor, or the empty string when
	// no sync has completed yet.
	GetCheckpoint(ctx context.Context) (string, error)

	// SetCheckpoint upserts the singleton cursor row under a fixed key and
	// commits before returning. Repeated calls with the same token leave
	// state unchanged.
	SetCheckpoint(ctx context.Context, checkpoint string) error
}

// NodeRepository covers the cross-kind node operations: staleness estimation
// and purging.
type NodeRepository interface {
	// MaxAge returns the cache age in fractional days, measured from the
	// newest local update timestamp. An empty store yields zero.
	MaxAge(ctx context.Context) (float64, error)

	// RemovePurged deletes the node rows matching the given ids in one
	// commit. Ids with no matching row are not an error.
	RemovePurged(ctx context.Context, ids []string) error
}

// FolderRepository upserts folder batches.
type FolderRepository interface {
	// UpsertFolders inserts or merge-updates every folder of the batch in
	// one transaction and reports the per-outcome tallies. An integrity
	// conflict rolls the whole batch back and is reported through the log
	// only; the summary and a nil error are still returned.
	UpsertFolders(ctx context.Context, folders []models.Folder) (models.UpsertSummary, error)
}

// FileRepository upserts file batches.
type FileRepository interface {
	// UpsertFiles mirrors UpsertFolders with a delete-then-reinsert update
	// strategy. Data-class errors roll the batch back and are reported
	// through the log only.
	UpsertFiles(ctx context.Context, files []models.File) (models.UpsertSummary, error)
}

// ParentageRepository maintains the many-to-many (child, parent) edge table.
type ParentageRepository interface {
	// RewriteParentage replaces, in one transaction, the outgoing edge set
	// of every listed child with exactly the given parent list, deduplicated.
	RewriteParentage(ctx context.Context, updates []models.ParentageUpdate) error
}
