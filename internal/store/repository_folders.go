package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nabcos/acd-cli/internal/logger"
	"github.com/nabcos/acd-cli/models"
)

type folderRepository struct {
	*DB
	logger *logger.Logger
}

// NewFolderRepository constructs a [FolderRepository] backed by the provided
// database connection and logger.
func NewFolderRepository(db *DB, logger *logger.Logger) FolderRepository {
	return &folderRepository{
		DB:     db,
		logger: logger,
	}
}

// UpsertFolders reconciles a folder batch against the cache in a single
// transaction. Per record:
//   - no existing row        → insert, tally "inserted"
//   - content-equal row      → tally "duplicate", refresh updated
//   - content-differing row  → merge in place, tally "updated"
//
// The merge is an in-place UPDATE so rows referencing the folder id are left
// undisturbed. An integrity conflict rolls the whole batch back, is logged,
// and does not surface as an error: the parentage rewrite that follows a
// batch runs regardless of the outcome here. Tallies reflect the records as
// they were processed, committed or not.
func (r *folderRepository) UpsertFolders(ctx context.Context, folders []models.Folder) (models.UpsertSummary, error) {
	log := logger.FromContext(ctx)

	var summary models.UpsertSummary
	if len(folders) == 0 {
		return summary, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "folderRepository.UpsertFolders").
			Int("batch_size", len(folders)).
			Msg("failed to begin transaction")
		return summary, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, folder := range folders {
		folder.Updated = now

		existing, found, lookupErr := scanFolderRow(tx.QueryRowContext(ctx, getFolderQuery, folder.ID))
		if lookupErr != nil {
			log.Err(lookupErr).
				Str("func", "folderRepository.UpsertFolders").
				Str("folder_id", folder.ID).
				Msg("failed to look up existing folder")
			return summary, lookupErr
		}

		var execErr error
		if !found {
			_, execErr = tx.ExecContext(ctx, insertFolderQuery,
				folder.ID, folder.Name, folder.Created, folder.Modified, folder.Updated, folder.Status)
			summary.Inserted++
		} else {
			if folder.ContentEquals(existing) {
				summary.Duplicate++
			} else {
				summary.Updated++
			}
			_, execErr = tx.ExecContext(ctx, updateFolderQuery,
				folder.Name, folder.Created, folder.Modified, folder.Updated, folder.Status, folder.ID)
		}

		if execErr != nil {
			if r.classify(execErr) == ConstraintViolation {
				log.Warn().
					Err(execErr).
					Str("func", "folderRepository.UpsertFolders").
					Str("folder_id", folder.ID).
					Msg("error inserting folders, batch rolled back")
				return summary, nil
			}
			log.Err(execErr).
				Str("func", "folderRepository.UpsertFolders").
				Str("folder_id", folder.ID).
				Msg("failed to write folder row")
			return summary, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		if r.classify(commitErr) == ConstraintViolation {
			log.Warn().
				Err(commitErr).
				Str("func", "folderRepository.UpsertFolders").
				Msg("error inserting folders, batch rolled back")
			return summary, nil
		}
		log.Err(commitErr).
			Str("func", "folderRepository.UpsertFolders").
			Int("batch_size", len(folders)).
			Msg("failed to commit transaction")
		return summary, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return summary, nil
}

func scanFolderRow(row *sql.Row) (models.Folder, bool, error) {
	var folder models.Folder
	var name sql.NullString

	err := row.Scan(&folder.ID, &name, &folder.Created, &folder.Modified, &folder.Updated, &folder.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Folder{}, false, nil
	}
	if err != nil {
		return models.Folder{}, false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if name.Valid {
		folder.Name = &name.String
	}

	return folder, true, nil
}
