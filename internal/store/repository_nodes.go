package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nabcos/acd-cli/internal/logger"
)

const hoursPerDay = 24

type nodeRepository struct {
	*DB
	logger *logger.Logger
}

// NewNodeRepository constructs a [NodeRepository] backed by the provided
// database connection and logger.
func NewNodeRepository(db *DB, logger *logger.Logger) NodeRepository {
	return &nodeRepository{
		DB:     db,
		logger: logger,
	}
}

// MaxAge computes the cache age as now minus the newest updated timestamp
// over all nodes, folders and files alike, expressed in fractional days.
// An empty store yields zero. Callers use the result to decide between a
// full resync and an incremental one.
func (r *nodeRepository) MaxAge(ctx context.Context) (float64, error) {
	newestFolder, err := r.newestUpdate(ctx, newestFolderUpdateQuery)
	if err != nil {
		return 0, err
	}
	newestFile, err := r.newestUpdate(ctx, newestFileUpdateQuery)
	if err != nil {
		return 0, err
	}

	newest := newestFolder
	if newestFile.After(newest) {
		newest = newestFile
	}
	if newest.IsZero() {
		return 0, nil
	}

	return time.Since(newest).Hours() / hoursPerDay, nil
}

// newestUpdate returns the newest updated timestamp of one node table, or
// the zero time when the table is empty. Selecting the plain column (rather
// than MAX) keeps the driver's timestamp conversion intact on both backends.
func (r *nodeRepository) newestUpdate(ctx context.Context, query string) (time.Time, error) {
	log := logger.FromContext(ctx)

	var newest time.Time
	err := r.DB.QueryRowContext(ctx, query).Scan(&newest)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "nodeRepository.newestUpdate").
			Msg("failed to query newest node update")
		return time.Time{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return newest, nil
}

// RemovePurged deletes the node rows matching the given ids from both node
// tables in a single transaction. An id without a matching row is not an
// error. The logged count is the length of the input list, which can exceed
// the number of rows actually removed.
func (r *nodeRepository) RemovePurged(ctx context.Context, ids []string) error {
	log := logger.FromContext(ctx)

	if len(ids) == 0 {
		log.Debug().
			Str("func", "nodeRepository.RemovePurged").
			Msg("no purged ids provided")
		return nil
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "nodeRepository.RemovePurged").
			Int("ids_count", len(ids)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	for _, table := range []string{"folders", "files"} {
		query, args, buildErr := buildRemovePurgedQuery(table, ids)
		if buildErr != nil {
			log.Err(buildErr).
				Str("func", "nodeRepository.RemovePurged").
				Str("table", table).
				Msg("failed to build purge query")
			return buildErr
		}

		if _, execErr := tx.ExecContext(ctx, query, args...); execErr != nil {
			log.Err(execErr).
				Str("func", "nodeRepository.RemovePurged").
				Str("table", table).
				Msg("failed to execute purge delete")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "nodeRepository.RemovePurged").
			Int("ids_count", len(ids)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "nodeRepository.RemovePurged").
		Int("purged", len(ids)).
		Msg("purged nodes")

	return nil
}
