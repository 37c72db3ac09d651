package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabcos/acd-cli/internal/logger"
	"github.com/nabcos/acd-cli/models"
)

// newSQLiteDB opens a throwaway on-disk cache database and migrates it, so
// tests exercise the real driver's placeholder binding and type conversion
// instead of sqlmock's regex matching.
func newSQLiteDB(t *testing.T) *DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "nodes.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db := &DB{
		DB:                 conn,
		errorClassificator: NewSQLiteErrorClassifier(),
		dialect:            "sqlite3",
		logger:             logger.Nop(),
	}
	require.NoError(t, db.Migrate())

	return db
}

// Full upsert life cycle against a real sqlite3 connection: insert, rename,
// then re-send unchanged. The stored row is asserted after each step; the
// rename in particular must be visible in the table, not just in the summary.
func TestUpsertFolders_SQLiteInsertRenameDuplicate(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewFolderRepository(db, logger.Nop())
	ctx := context.Background()

	name := "documents"
	folder := models.Folder{
		ID:       "fold-1",
		Name:     &name,
		Created:  time.Date(2013, 1, 1, 1, 1, 1, 0, time.UTC),
		Modified: time.Date(2013, 2, 2, 2, 2, 2, 0, time.UTC),
		Status:   models.StatusAvailable,
	}

	summary, err := repo.UpsertFolders(ctx, []models.Folder{folder})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertSummary{Inserted: 1}, summary)
	assert.Equal(t, "documents", storedFolderName(t, db, folder.ID))

	renamed := folder
	newName := "pictures"
	renamed.Name = &newName

	summary, err = repo.UpsertFolders(ctx, []models.Folder{renamed})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertSummary{Updated: 1}, summary)
	assert.Equal(t, "pictures", storedFolderName(t, db, folder.ID),
		"the rename must persist in the stored row")

	updatedAfterRename := storedFolderUpdated(t, db, folder.ID)

	summary, err = repo.UpsertFolders(ctx, []models.Folder{renamed})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertSummary{Duplicate: 1}, summary)
	assert.Equal(t, "pictures", storedFolderName(t, db, folder.ID))

	updatedAfterDuplicate := storedFolderUpdated(t, db, folder.ID)
	assert.False(t, updatedAfterDuplicate.Before(updatedAfterRename),
		"a duplicate still refreshes the updated column")

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM folders;`).Scan(&count))
	assert.Equal(t, 1, count, "the merge updates in place, it never adds a row")
}

// The merge-update matches on the id column, so a batch touching one of two
// stored folders leaves the other untouched.
func TestUpsertFolders_SQLiteUpdateTargetsRowByID(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewFolderRepository(db, logger.Nop())
	ctx := context.Background()

	first, second := "first", "second"
	folders := []models.Folder{
		{
			ID:       "fold-1",
			Name:     &first,
			Created:  time.Date(2013, 1, 1, 1, 1, 1, 0, time.UTC),
			Modified: time.Date(2013, 1, 1, 1, 1, 1, 0, time.UTC),
			Status:   models.StatusAvailable,
		},
		{
			ID:       "fold-2",
			Name:     &second,
			Created:  time.Date(2013, 1, 1, 1, 1, 1, 0, time.UTC),
			Modified: time.Date(2013, 1, 1, 1, 1, 1, 0, time.UTC),
			Status:   models.StatusAvailable,
		},
	}

	summary, err := repo.UpsertFolders(ctx, folders)
	require.NoError(t, err)
	assert.Equal(t, models.UpsertSummary{Inserted: 2}, summary)

	trashed := folders[1]
	trashed.Status = models.StatusTrash

	summary, err = repo.UpsertFolders(ctx, []models.Folder{trashed})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertSummary{Updated: 1}, summary)

	var status string
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT status FROM folders WHERE id = $1;`, "fold-1").Scan(&status))
	assert.Equal(t, string(models.StatusAvailable), status, "the sibling row must be untouched")

	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT status FROM folders WHERE id = $1;`, "fold-2").Scan(&status))
	assert.Equal(t, string(models.StatusTrash), status)
}

func storedFolderName(t *testing.T, db *DB, id string) string {
	t.Helper()

	var name string
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT name FROM folders WHERE id = $1;`, id).Scan(&name))
	return name
}

func storedFolderUpdated(t *testing.T, db *DB, id string) time.Time {
	t.Helper()

	var updated time.Time
	require.NoError(t, db.QueryRowContext(context.Background(),
		`SELECT updated FROM folders WHERE id = $1;`, id).Scan(&updated))
	return updated
}
