package store

import (
	"context"
	"fmt"

	"github.com/nabcos/acd-cli/internal/logger"
	"github.com/nabcos/acd-cli/models"
)

type parentageRepository struct {
	*DB
	logger *logger.Logger
}

// NewParentageRepository constructs a [ParentageRepository] backed by the
// provided database connection and logger.
func NewParentageRepository(db *DB, logger *logger.Logger) ParentageRepository {
	return &parentageRepository{
		DB:     db,
		logger: logger,
	}
}

// RewriteParentage replaces the outgoing edge set of every listed child in
// one transaction: first all existing edges of each child are deleted, then
// one edge per (parent, child) pair is inserted. The insert ignores an edge
// that already exists, which also deduplicates repeated parents in the
// input. Afterwards each child's stored edge set equals exactly its parent
// list from the payload.
//
// This runs in a transaction separate from the node-row upsert and iterates
// the original payload regardless of whether that upsert committed.
func (r *parentageRepository) RewriteParentage(ctx context.Context, updates []models.ParentageUpdate) error {
	log := logger.FromContext(ctx)

	if len(updates) == 0 {
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "parentageRepository.RewriteParentage").
			Int("children_count", len(updates)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, update := range updates {
		if _, execErr := tx.ExecContext(ctx, deleteParentageQuery, update.ChildID); execErr != nil {
			log.Err(execErr).
				Str("func", "parentageRepository.RewriteParentage").
				Str("child_id", update.ChildID).
				Msg("failed to delete existing parentage edges")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	for _, update := range updates {
		for _, parentID := range update.ParentIDs {
			if _, execErr := tx.ExecContext(ctx, insertParentageQuery, parentID, update.ChildID); execErr != nil {
				log.Err(execErr).
					Str("func", "parentageRepository.RewriteParentage").
					Str("child_id", update.ChildID).
					Str("parent_id", parentID).
					Msg("failed to insert parentage edge")
				return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
			}
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "parentageRepository.RewriteParentage").
			Int("children_count", len(updates)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}
