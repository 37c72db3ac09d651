// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 The acd-cli Authors

// Package cache implements the reconciliation core of the local metadata
// mirror: it classifies raw node batches delivered by the changes API,
// routes them to the folder and file upserters, and keeps the parentage
// edges, purge state and sync checkpoint consistent.
//
// The package follows a soft-fail policy: a bad record never aborts its
// batch. Ineligible records are dropped (silently or with a warning,
// depending on why), and storage integrity conflicts roll back the affected
// node-row transaction without surfacing an error. Operators detect partial
// failures through the logs, not through return values.
package cache

import (
	"context"

	"github.com/nabcos/acd-cli/internal/logger"
	"github.com/nabcos/acd-cli/internal/store"
	"github.com/nabcos/acd-cli/models"
)

// Store is the persistence surface the syncer drives. *store.NodeStorage
// satisfies it.
type Store interface {
	store.CheckpointRepository
	store.NodeRepository
	store.FolderRepository
	store.FileRepository
	store.ParentageRepository
}

// Syncer is the public surface of the reconciliation core. Every operation
// runs to completion synchronously; there is no internal parallelism, and
// concurrent callers sharing one store must serialize externally.
type Syncer interface {
	// GetCheckpoint returns the persisted sync cursor, or the empty string
	// when no sync has completed yet.
	GetCheckpoint(ctx context.Context) (string, error)

	// SetCheckpoint persists the sync cursor. Idempotent.
	SetCheckpoint(ctx context.Context, checkpoint string) error

	// MaxAge returns the cache age in fractional days; zero for an empty
	// store.
	MaxAge(ctx context.Context) (float64, error)

	// RemovePurged deletes the node rows for ids the remote side reports
	// as gone. Unmatched ids are not an error.
	RemovePurged(ctx context.Context, ids []string) error

	// InsertNodes classifies a raw mixed batch and upserts folders first,
	// then files.
	InsertNodes(ctx context.Context, nodes []models.RawNode) error

	// InsertNode applies the same classification and routing to a single
	// record.
	InsertNode(ctx context.Context, node models.RawNode) error

	// InsertFolders upserts a batch of raw folder records and rewrites
	// their parentage edges.
	InsertFolders(ctx context.Context, folders []models.RawNode) error

	// InsertFiles upserts a batch of raw file records and rewrites their
	// parentage edges.
	InsertFiles(ctx context.Context, files []models.RawNode) error
}

type syncer struct {
	store  Store
	logger *logger.Logger
}

// NewSyncer constructs the reconciliation core on top of the given store.
func NewSyncer(st Store, log *logger.Logger) Syncer {
	return &syncer{
		store:  st,
		logger: log,
	}
}

func (s *syncer) GetCheckpoint(ctx context.Context) (string, error) {
	return s.store.GetCheckpoint(ctx)
}

func (s *syncer) SetCheckpoint(ctx context.Context, checkpoint string) error {
	return s.store.SetCheckpoint(ctx, checkpoint)
}

func (s *syncer) MaxAge(ctx context.Context) (float64, error) {
	return s.store.MaxAge(ctx)
}

func (s *syncer) RemovePurged(ctx context.Context, ids []string) error {
	return s.store.RemovePurged(ctx, ids)
}

// InsertNodes partitions the batch by kind and upserts folders before files.
// The folder path merges in place while the file path deletes and reinserts,
// so running folders first keeps the window small in which a concurrent
// reader could see a file whose folder context lags behind.
func (s *syncer) InsertNodes(ctx context.Context, nodes []models.RawNode) error {
	parts := partition(ctx, nodes)

	if err := s.InsertFolders(ctx, parts.folders); err != nil {
		return err
	}

	return s.InsertFiles(ctx, parts.files)
}

// InsertNode routes a single record through the same classification and drop
// rules as a batch.
func (s *syncer) InsertNode(ctx context.Context, node models.RawNode) error {
	return s.InsertNodes(ctx, []models.RawNode{node})
}

// InsertFolders builds folder candidates from the raw records, upserts them
// in one node-row transaction, then rewrites the parentage edges of every
// record of the original payload in a second, separate transaction. The edge
// rewrite runs even when the node-row transaction rolled back.
func (s *syncer) InsertFolders(ctx context.Context, folders []models.RawNode) error {
	log := logger.FromContext(ctx)

	if len(folders) == 0 {
		return nil
	}

	candidates := make([]models.Folder, 0, len(folders))
	links := make([]models.ParentageUpdate, 0, len(folders))
	for _, raw := range folders {
		log.Debug().
			Str("func", "syncer.InsertFolders").
			Str("node_id", raw.ID).
			Msg("processing folder record")

		folder, err := raw.ToFolder()
		if err != nil {
			log.Warn().
				Err(err).
				Str("func", "syncer.InsertFolders").
				Str("node_id", raw.ID).
				Msg("dropping folder record with malformed timestamps")
			continue
		}

		candidates = append(candidates, folder)
		links = append(links, models.ParentageUpdate{ChildID: raw.ID, ParentIDs: raw.Parents})
	}

	summary, err := s.store.UpsertFolders(ctx, candidates)
	if err != nil {
		log.Err(err).
			Str("func", "syncer.InsertFolders").
			Int("batch_size", len(candidates)).
			Msg("folder upsert failed")
		return err
	}
	logSummary(log, "folder", summary)

	if err := s.store.RewriteParentage(ctx, links); err != nil {
		log.Err(err).
			Str("func", "syncer.InsertFolders").
			Int("children_count", len(links)).
			Msg("parentage rewrite failed")
		return err
	}

	return nil
}

// InsertFiles mirrors InsertFolders for file records. A record without
// content properties becomes an empty file with the well-known zero-length
// checksum; that is a defined default, not an error.
func (s *syncer) InsertFiles(ctx context.Context, files []models.RawNode) error {
	log := logger.FromContext(ctx)

	if len(files) == 0 {
		return nil
	}

	candidates := make([]models.File, 0, len(files))
	links := make([]models.ParentageUpdate, 0, len(files))
	for _, raw := range files {
		file, err := raw.ToFile()
		if err != nil {
			log.Warn().
				Err(err).
				Str("func", "syncer.InsertFiles").
				Str("node_id", raw.ID).
				Msg("dropping file record with malformed timestamps")
			continue
		}

		candidates = append(candidates, file)
		links = append(links, models.ParentageUpdate{ChildID: raw.ID, ParentIDs: raw.Parents})
	}

	summary, err := s.store.UpsertFiles(ctx, candidates)
	if err != nil {
		log.Err(err).
			Str("func", "syncer.InsertFiles").
			Int("batch_size", len(candidates)).
			Msg("file upsert failed")
		return err
	}
	logSummary(log, "file", summary)

	if err := s.store.RewriteParentage(ctx, links); err != nil {
		log.Err(err).
			Str("func", "syncer.InsertFiles").
			Int("children_count", len(links)).
			Msg("parentage rewrite failed")
		return err
	}

	return nil
}

// logSummary reports the per-outcome tallies of one upsert batch, each count
// only when it is non-zero. The deleted tally stays zero on both upsert
// paths today.
func logSummary(log *logger.Logger, kind string, summary models.UpsertSummary) {
	if summary.Inserted > 0 {
		log.Info().Str("kind", kind).Int("inserted", summary.Inserted).Msg("node(s) inserted")
	}
	if summary.Duplicate > 0 {
		log.Info().Str("kind", kind).Int("duplicate", summary.Duplicate).Msg("duplicate node(s) not inserted")
	}
	if summary.Updated > 0 {
		log.Info().Str("kind", kind).Int("updated", summary.Updated).Msg("node(s) updated")
	}
	if summary.Deleted > 0 {
		log.Info().Str("kind", kind).Int("deleted", summary.Deleted).Msg("node(s) deleted")
	}
}
