package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nabcos/acd-cli/internal/logger"
)

type checkpointRepository struct {
	*DB
	logger *logger.Logger
}

// NewCheckpointRepository constructs a [CheckpointRepository] backed by the
// provided database connection and logger.
func NewCheckpointRepository(db *DB, logger *logger.Logger) CheckpointRepository {
	return &checkpointRepository{
		DB:     db,
		logger: logger,
	}
}

// GetCheckpoint returns the persisted sync cursor. A store that never
// completed a sync has no cursor row; that case yields the empty string and
// no error.
func (r *checkpointRepository) GetCheckpoint(ctx context.Context) (string, error) {
	log := logger.FromContext(ctx)

	var checkpoint string
	err := r.DB.QueryRowContext(ctx, getCheckpointQuery, checkpointKey).Scan(&checkpoint)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "checkpointRepository.GetCheckpoint").
			Msg("failed to query checkpoint row")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return checkpoint, nil
}

// SetCheckpoint upserts the singleton cursor row and commits before
// returning. Calling it twice with the same token is a no-op.
func (r *checkpointRepository) SetCheckpoint(ctx context.Context, checkpoint string) error {
	log := logger.FromContext(ctx)

	_, err := r.DB.ExecContext(ctx, setCheckpointQuery, checkpointKey, checkpoint)
	if err != nil {
		log.Err(err).
			Str("func", "checkpointRepository.SetCheckpoint").
			Msg("failed to upsert checkpoint row")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	log.Debug().
		Str("func", "checkpointRepository.SetCheckpoint").
		Msg("checkpoint persisted")

	return nil
}
