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

type fileRepository struct {
	*DB
	logger *logger.Logger
}

// NewFileRepository constructs a [FileRepository] backed by the provided
// database connection and logger.
func NewFileRepository(db *DB, logger *logger.Logger) FileRepository {
	return &fileRepository{
		DB:     db,
		logger: logger,
	}
}

// UpsertFiles reconciles a file batch against the cache in a single
// transaction. The classification mirrors the folder path, but the update
// strategy differs: an updated file wholesale replaces checksum, size and
// timestamps, so the existing row is deleted and the candidate reinserted.
// A file owns no child rows that would need preserving.
//
// The guarded failure class is narrower than the folder path's: only
// data-class errors are rolled back and logged; a uniqueness conflict is not
// expected here because every update explicitly deletes before inserting.
func (r *fileRepository) UpsertFiles(ctx context.Context, files []models.File) (models.UpsertSummary, error) {
	log := logger.FromContext(ctx)

	var summary models.UpsertSummary
	if len(files) == 0 {
		return summary, nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "fileRepository.UpsertFiles").
			Int("batch_size", len(files)).
			Msg("failed to begin transaction")
		return summary, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, file := range files {
		file.Updated = now

		existing, found, lookupErr := scanFileRow(tx.QueryRowContext(ctx, getFileQuery, file.ID))
		if lookupErr != nil {
			log.Err(lookupErr).
				Str("func", "fileRepository.UpsertFiles").
				Str("file_id", file.ID).
				Msg("failed to look up existing file")
			return summary, lookupErr
		}

		var execErr error
		if !found {
			summary.Inserted++
		} else {
			if file.ContentEquals(existing) {
				summary.Duplicate++
			} else {
				summary.Updated++
			}
			_, execErr = tx.ExecContext(ctx, deleteFileQuery, file.ID)
		}

		if execErr == nil {
			_, execErr = tx.ExecContext(ctx, insertFileQuery,
				file.ID, file.Name, file.Created, file.Modified, file.Updated, file.Status, file.MD5, file.Size)
		}

		if execErr != nil {
			if r.classify(execErr) == DataError {
				log.Error().
					Err(execErr).
					Str("func", "fileRepository.UpsertFiles").
					Str("file_id", file.ID).
					Msg("error inserting files, batch rolled back")
				return summary, nil
			}
			log.Err(execErr).
				Str("func", "fileRepository.UpsertFiles").
				Str("file_id", file.ID).
				Msg("failed to write file row")
			return summary, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		if r.classify(commitErr) == DataError {
			log.Error().
				Err(commitErr).
				Str("func", "fileRepository.UpsertFiles").
				Msg("error inserting files, batch rolled back")
			return summary, nil
		}
		log.Err(commitErr).
			Str("func", "fileRepository.UpsertFiles").
			Int("batch_size", len(files)).
			Msg("failed to commit transaction")
		return summary, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return summary, nil
}

func scanFileRow(row *sql.Row) (models.File, bool, error) {
	var file models.File
	var name sql.NullString

	err := row.Scan(&file.ID, &name, &file.Created, &file.Modified, &file.Updated, &file.Status, &file.MD5, &file.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return models.File{}, false, nil
	}
	if err != nil {
		return models.File{}, false, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	if name.Valid {
		file.Name = &name.String
	}

	return file, true, nil
}
