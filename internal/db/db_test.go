package db

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return sqlxDB, mock
}

func TestWithTx_Commit(t *testing.T) {
	db, mock := setupMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM session_attendees WHERE session_id = $1")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		_, err := tx.Exec("DELETE FROM session_attendees WHERE session_id = $1", 5)
		return err
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollbackKeepsError(t *testing.T) {
	db, mock := setupMock(t)
	businessErr := errors.New("no sessions left")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		return businessErr
	})

	assert.Same(t, businessErr, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_BeginFails(t *testing.T) {
	db, mock := setupMock(t)

	mock.ExpectBegin().WillReturnError(assert.AnError)

	called := false
	err := WithTx(context.Background(), db, func(tx *sqlx.Tx) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, assert.AnError)
	assert.False(t, called)
}

func TestExists(t *testing.T) {
	db, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM trainers WHERE id = $1)")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := Exists(context.Background(), db, "SELECT EXISTS(SELECT 1 FROM trainers WHERE id = $1)", 3)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPQErrorClassification(t *testing.T) {
	wrap := func(code pq.ErrorCode) error {
		return fmt.Errorf("insert: %w", &pq.Error{Code: code})
	}

	assert.True(t, IsSerializationFailure(wrap("40001")))
	assert.True(t, IsSerializationFailure(wrap("40P01")))
	assert.False(t, IsSerializationFailure(assert.AnError))
	assert.True(t, IsUniqueViolation(wrap("23505")))
	assert.True(t, IsForeignKeyViolation(wrap("23503")))
	assert.False(t, IsForeignKeyViolation(wrap("23505")))
}
