package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nabcos/acd-cli/internal/logger"
)

func TestMaxAge_EmptyStore(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	mock.ExpectQuery("SELECT updated FROM folders").WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("SELECT updated FROM files").WillReturnError(sql.ErrNoRows)

	repo := NewNodeRepository(db, logger.Nop())

	age, err := repo.MaxAge(context.Background())
	require.NoError(t, err)
	assert.Zero(t, age)
}

func TestMaxAge_NewestRowWins(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	// folder table is older, file table carries the newest update
	folderUpdated := time.Now().UTC().Add(-72 * time.Hour)
	fileUpdated := time.Now().UTC().Add(-12 * time.Hour)

	mock.ExpectQuery("SELECT updated FROM folders").
		WillReturnRows(sqlmock.NewRows([]string{"updated"}).AddRow(folderUpdated))
	mock.ExpectQuery("SELECT updated FROM files").
		WillReturnRows(sqlmock.NewRows([]string{"updated"}).AddRow(fileUpdated))

	repo := NewNodeRepository(db, logger.Nop())

	age, err := repo.MaxAge(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.5, age, 0.01, "age should follow the newest row across both tables")
}

func TestMaxAge_OneTableEmpty(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	folderUpdated := time.Now().UTC().Add(-24 * time.Hour)

	mock.ExpectQuery("SELECT updated FROM folders").
		WillReturnRows(sqlmock.NewRows([]string{"updated"}).AddRow(folderUpdated))
	mock.ExpectQuery("SELECT updated FROM files").WillReturnError(sql.ErrNoRows)

	repo := NewNodeRepository(db, logger.Nop())

	age, err := repo.MaxAge(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1.0, age, 0.01)
}

func TestMaxAge_QueryError(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	mock.ExpectQuery("SELECT updated FROM folders").
		WillReturnError(errors.New("db failure"))

	repo := NewNodeRepository(db, logger.Nop())

	_, err := repo.MaxAge(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestRemovePurged_EmptyInputIsNoop(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	repo := NewNodeRepository(db, logger.Nop())

	require.NoError(t, repo.RemovePurged(context.Background(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemovePurged_DeletesFromBothTables(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM folders WHERE id IN").
		WithArgs("node-1", "node-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM files WHERE id IN").
		WithArgs("node-1", "node-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewNodeRepository(db, logger.Nop())

	require.NoError(t, repo.RemovePurged(context.Background(), []string{"node-1", "node-2"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

// Ids without a matching row are fine: the delete simply affects zero rows.
func TestRemovePurged_UnknownIdsAreNotAnError(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM folders WHERE id IN").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM files WHERE id IN").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	repo := NewNodeRepository(db, logger.Nop())

	require.NoError(t, repo.RemovePurged(context.Background(), []string{"ghost"}))
}

func TestRemovePurged_ExecError(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM folders WHERE id IN").
		WillReturnError(errors.New("db failure"))
	mock.ExpectRollback()

	repo := NewNodeRepository(db, logger.Nop())

	err := repo.RemovePurged(context.Background(), []string{"node-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestRemovePurged_CommitError(t *testing.T) {
	db, mock, conn := newMockDB(t)
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM folders WHERE id IN").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM files WHERE id IN").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("commit failure"))

	repo := NewNodeRepository(db, logger.Nop())

	err := repo.RemovePurged(context.Background(), []string{"node-1"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommitingTransaction)
}
