package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabcos/acd-cli/internal/logger"
	"github.com/nabcos/acd-cli/models"
)

func testFolder() models.Folder {
	name := "documents"
	return models.Folder{
		ID:       "fold-1",
		Name:     &name,
		Created:  time.Date(2013, 1, 1, 1, 1, 1, 0, time.UTC),
		Modified: time.Date(2013, 2, 2, 2, 2, 2, 0, time.UTC),
		Status:   models.StatusAvailable,
	}
}

func folderColumns() []string {
	return []string{"id", "name", "created", "modified", "updated", "status"}
}

func TestUpsertFolders_EmptyBatchIsNoop(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	repo := NewFolderRepository(db, logger.Nop())

	summary, err := repo.UpsertFolders(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, summary)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertFolders_InsertsNewFolder(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	folder := testFolder()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, created, modified, updated, status FROM folders").
		WithArgs(folder.ID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO folders").
		WithArgs(folder.ID, folder.Name, folder.Created, folder.Modified, sqlmock.AnyArg(), folder.Status).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewFolderRepository(db, logger.Nop())

	summary, err := repo.UpsertFolders(context.Background(), []models.Folder{folder})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertSummary{Inserted: 1}, summary)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A content-equal record counts as a duplicate but still gets its updated
// column refreshed, so the cache age keeps moving.
func TestUpsertFolders_DuplicateRefreshesUpdated(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	folder := testFolder()

	existing := sqlmock.NewRows(folderColumns()).
		AddRow(folder.ID, *folder.Name, folder.Created, folder.Modified,
			time.Date(2013, 3, 3, 3, 3, 3, 0, time.UTC), string(folder.Status))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, created, modified, updated, status FROM folders").
		WithArgs(folder.ID).
		WillReturnRows(existing)
	mock.ExpectExec("UPDATE folders SET").
		WithArgs(folder.Name, folder.Created, folder.Modified, sqlmock.AnyArg(), folder.Status, folder.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewFolderRepository(db, logger.Nop())

	summary, err := repo.UpsertFolders(context.Background(), []models.Folder{folder})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertSummary{Duplicate: 1}, summary)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A renamed folder merges in place: the existing row is updated under its id,
// never deleted, so parentage rows stay attached.
func TestUpsertFolders_RenameMergesInPlace(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	folder := testFolder()

	existing := sqlmock.NewRows(folderColumns()).
		AddRow(folder.ID, "old-name", folder.Created, folder.Modified,
			time.Date(2013, 3, 3, 3, 3, 3, 0, time.UTC), string(folder.Status))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, created, modified, updated, status FROM folders").
		WithArgs(folder.ID).
		WillReturnRows(existing)
	mock.ExpectExec("UPDATE folders SET").
		WithArgs(folder.Name, folder.Created, folder.Modified, sqlmock.AnyArg(), folder.Status, folder.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewFolderRepository(db, logger.Nop())

	summary, err := repo.UpsertFolders(context.Background(), []models.Folder{folder})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertSummary{Updated: 1}, summary)
	require.NoError(t, mock.ExpectationsWereMet())
}

// An integrity conflict rolls the batch back and is reported through the log
// only: the caller sees a nil error and the tallies gathered so far.
func TestUpsertFolders_ConstraintViolationIsSoftFailure(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	folder := testFolder()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, created, modified, updated, status FROM folders").
		WithArgs(folder.ID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO folders").
		WillReturnError(sqlite3.Error{Code: sqlite3.ErrConstraint})
	mock.ExpectRollback()

	repo := NewFolderRepository(db, logger.Nop())

	summary, err := repo.UpsertFolders(context.Background(), []models.Folder{folder})
	require.NoError(t, err, "constraint violations must not surface as errors")
	assert.Equal(t, models.UpsertSummary{Inserted: 1}, summary,
		"tallies reflect the processed records even after rollback")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertFolders_UnclassifiedExecErrorPropagates(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	folder := testFolder()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, created, modified, updated, status FROM folders").
		WithArgs(folder.ID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO folders").
		WillReturnError(errors.New("db failure"))
	mock.ExpectRollback()

	repo := NewFolderRepository(db, logger.Nop())

	_, err := repo.UpsertFolders(context.Background(), []models.Folder{folder})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestUpsertFolders_MixedBatchTallies(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	newFolder := testFolder()
	dupFolder := testFolder()
	dupFolder.ID = "fold-2"

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, name, created, modified, updated, status FROM folders").
		WithArgs(newFolder.ID).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO folders").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT id, name, created, modified, updated, status FROM folders").
		WithArgs(dupFolder.ID).
		WillReturnRows(sqlmock.NewRows(folderColumns()).
			AddRow(dupFolder.ID, *dupFolder.Name, dupFolder.Created, dupFolder.Modified,
				time.Date(2013, 3, 3, 3, 3, 3, 0, time.UTC), string(dupFolder.Status)))
	mock.ExpectExec("UPDATE folders SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewFolderRepository(db, logger.Nop())

	summary, err := repo.UpsertFolders(context.Background(), []models.Folder{newFolder, dupFolder})
	require.NoError(t, err)
	assert.Equal(t, models.UpsertSummary{Inserted: 1, Duplicate: 1}, summary)
	require.NoError(t, mock.ExpectationsWereMet())
}
