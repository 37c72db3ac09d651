package store

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// checkpointKey is the fixed key of the singleton sync-cursor row in the
// metadata table.
const checkpointKey = "checkpoint"

// All constant queries use $N placeholders and ON CONFLICT clauses, which
// both the sqlite3 and pgx drivers accept, so one query set serves both
// backends. The sqlite3 driver binds $N by first occurrence rather than by
// number, so every query keeps its placeholders in argument order.
const (
	getCheckpointQuery = `SELECT value FROM metadata WHERE key = $1;`

	setCheckpointQuery = `INSERT INTO metadata (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value;`

	newestFolderUpdateQuery = `SELECT updated FROM folders ORDER BY updated DESC LIMIT 1;`

	newestFileUpdateQuery = `SELECT updated FROM files ORDER BY updated DESC LIMIT 1;`

	getFolderQuery = `SELECT id, name, created, modified, updated, status
		FROM folders
		WHERE id = $1;`

	insertFolderQuery = `INSERT INTO folders (id, name, created, modified, updated, status)
		VALUES ($1, $2, $3, $4, $5, $6);`

	// The merge-style update keeps the row in place so parentage rows
	// referencing the folder id stay intact.
	updateFolderQuery = `UPDATE folders SET
			name     = $1,
			created  = $2,
			modified = $3,
			updated  = $4,
			status   = $5
		WHERE id = $6;`

	getFileQuery = `SELECT id, name, created, modified, updated, status, md5, size
		FROM files
		WHERE id = $1;`

	insertFileQuery = `INSERT INTO files (id, name, created, modified, updated, status, md5, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`

	deleteFileQuery = `DELETE FROM files WHERE id = $1;`

	deleteParentageQuery = `DELETE FROM parentage WHERE child = $1;`

	insertParentageQuery = `INSERT INTO parentage (parent, child) VALUES ($1, $2)
		ON CONFLICT (parent, child) DO NOTHING;`
)

// buildRemovePurgedQuery builds a DELETE over the given node table matching
// any of the purged ids. squirrel expands the id slice into an IN clause with
// $N placeholders.
func buildRemovePurgedQuery(table string, ids []string) (string, []any, error) {
	query, args, err := sq.Delete(table).
		Where(sq.Eq{"id": ids}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
